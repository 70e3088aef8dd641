// Package source turns operator-supplied locations into documents.
//
// A location is a local path (glob patterns allowed), an s3://bucket/key
// object or an http(s) URL. Data sources are JSON or YAML documents whose
// root is an object. Schema sources (.proto files, OpenAPI documents and
// JSON Schemas) are converted into sample data: one resource per message or
// schema, each holding a single sample item with id 1.
//
// Documents from all sources are combined with the merge package in the
// order they were given.
//
// Example:
//
//	specs := append(source.Specs(source.KindData, "db.json"),
//		source.Specs(source.KindProto, "api/*.proto")...)
//	specs, _ = source.ExpandSpecs(specs)
//	if err := source.CheckExists(specs); err != nil {
//		return err
//	}
//	doc, err := source.NewLoader().LoadAll(ctx, specs)
package source
