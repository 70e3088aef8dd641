package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/getmockd/jsonmock/pkg/resource"
)

// maxSampleDepth bounds recursion through self-referencing message and
// schema types.
const maxSampleDepth = 4

// loadProto compiles a .proto file and returns one resource per message
// declared in it, each holding a single sample item with id 1.
// Imports resolve next to the file, then against the configured import paths,
// then against the well-known types bundled with protocompile.
func (l *Loader) loadProto(ctx context.Context, location string, data []byte) (resource.Document, error) {
	name := path.Base(filepath.ToSlash(location))

	importPaths := []string{""}
	if !IsRemote(location) {
		importPaths = append(importPaths, filepath.Dir(location))
	}
	importPaths = append(importPaths, l.importPaths...)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
			Accessor: func(p string) (io.ReadCloser, error) {
				if p == name {
					return io.NopCloser(bytes.NewReader(data)), nil
				}
				return os.Open(p)
			},
		}),
	}

	files, err := compiler.Compile(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("compile proto: %w", err)
	}

	doc := make(resource.Document)
	for _, file := range files {
		addMessages(doc, file.Messages())
	}
	return doc, nil
}

func addMessages(doc resource.Document, messages protoreflect.MessageDescriptors) {
	for i := 0; i < messages.Len(); i++ {
		msg := messages.Get(i)
		if msg.IsMapEntry() {
			continue
		}
		item := protoSample(msg, 0)
		item[resource.IDField] = int64(1)
		doc[string(msg.Name())] = []any{item}

		addMessages(doc, msg.Messages())
	}
}

// protoSample builds a sample object keyed by the fields' JSON names.
func protoSample(msg protoreflect.MessageDescriptor, depth int) map[string]any {
	fields := msg.Fields()
	if fields.Len() == 0 {
		return map[string]any{
			"name":        "Sample " + string(msg.Name()),
			"description": "This is a sample item generated from proto definition",
		}
	}

	out := make(map[string]any, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		field := fields.Get(i)
		if depth >= maxSampleDepth && field.Kind() == protoreflect.MessageKind {
			continue
		}
		out[field.JSONName()] = protoFieldSample(msg, field, depth)
	}
	return out
}

func protoFieldSample(msg protoreflect.MessageDescriptor, field protoreflect.FieldDescriptor, depth int) any {
	switch {
	case field.IsMap():
		return map[string]any{"key": protoValueSample(msg, field.MapValue(), depth)}
	case field.IsList():
		return []any{protoValueSample(msg, field, depth)}
	default:
		return protoValueSample(msg, field, depth)
	}
}

func protoValueSample(msg protoreflect.MessageDescriptor, field protoreflect.FieldDescriptor, depth int) any {
	switch field.Kind() {
	case protoreflect.BoolKind:
		return true
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return 1
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		// protojson renders 64-bit integers as strings.
		return "1"
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return 1.5
	case protoreflect.StringKind:
		if field.Name() == "name" {
			return "Sample " + string(msg.Name())
		}
		return "sample " + string(field.Name())
	case protoreflect.BytesKind:
		return "c2FtcGxl"
	case protoreflect.EnumKind:
		values := field.Enum().Values()
		if values.Len() == 0 {
			return nil
		}
		return string(values.Get(0).Name())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return wellKnownSample(field.Message(), depth)
	default:
		return nil
	}
}

func wellKnownSample(msg protoreflect.MessageDescriptor, depth int) any {
	switch msg.FullName() {
	case "google.protobuf.Timestamp":
		return "2024-01-01T00:00:00Z"
	case "google.protobuf.Duration":
		return "1s"
	case "google.protobuf.Struct":
		return map[string]any{}
	case "google.protobuf.Value":
		return nil
	case "google.protobuf.Empty":
		return map[string]any{}
	case "google.protobuf.StringValue":
		return "sample"
	case "google.protobuf.BoolValue":
		return true
	case "google.protobuf.Int32Value", "google.protobuf.UInt32Value":
		return 1
	case "google.protobuf.Int64Value", "google.protobuf.UInt64Value":
		return "1"
	case "google.protobuf.DoubleValue", "google.protobuf.FloatValue":
		return 1.5
	}
	return protoSample(msg, depth+1)
}
