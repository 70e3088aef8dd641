package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/getmockd/jsonmock/pkg/cli/internal/output"
	"github.com/getmockd/jsonmock/pkg/cliconfig"
	"github.com/getmockd/jsonmock/pkg/logging"
	"github.com/getmockd/jsonmock/pkg/resource"
	"github.com/getmockd/jsonmock/pkg/server"
	"github.com/getmockd/jsonmock/pkg/source"

	"github.com/spf13/cobra"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the values bound to the source and server flags.
type serveFlags struct {
	data        []string
	proto       []string
	openapi     []string
	schema      []string
	importPaths []string
	configFile  string

	host         string
	port         int
	readTimeout  int
	writeTimeout int
	maxBodySize  int64
	metrics      bool

	logLevel  string
	logFormat string
}

// Flag values for the root command and the serve command. They are kept
// apart so that each command's Changed state reflects its own arguments.
var (
	rootFlagVals  serveFlags
	serveFlagVals serveFlags
)

// serveReadyHook, when set, is called once the server is listening.
var serveReadyHook func(*server.Server)

// ServeOutput is the --json form of the startup banner.
type ServeOutput struct {
	URL       string               `json:"url"`
	Resources []string             `json:"resources"`
	Routes    []resource.RouteInfo `json:"routes"`
	Metrics   bool                 `json:"metrics"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve data and schema sources as a REST API",
	Long: `Load every source, merge them into one document and serve each top-level
key as a REST resource. Sources are merged in the order data, proto, openapi,
jsonschema; items with the same id are overwritten by later sources.`,
	Example: `  # Serve a JSON file on the default port
  jsonmock serve -d db.json

  # Serve YAML fixtures plus generated samples from a proto file
  jsonmock serve -d 'fixtures/*.yaml' -p api/user.proto --port 8080

  # Serve remote sources
  jsonmock serve -d https://example.com/db.json --openapi s3://bucket/openapi.yaml

  # Expose Prometheus metrics at /__metrics
  jsonmock serve -d db.json --metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals, false)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd, &serveFlagVals)
}

// addSourceFlags registers the flags that select and load sources.
func addSourceFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringArrayVarP(&f.data, "data", "d", nil, "JSON or YAML data file, glob, URL or s3:// location (repeatable)")
	cmd.Flags().StringArrayVarP(&f.proto, "proto", "p", nil, "Protocol Buffers file to generate sample data from (repeatable)")
	cmd.Flags().StringArrayVar(&f.openapi, "openapi", nil, "OpenAPI 3 document to generate sample data from (repeatable)")
	cmd.Flags().StringArrayVar(&f.schema, "schema", nil, "JSON Schema document to generate sample data from (repeatable)")
	cmd.Flags().StringArrayVar(&f.importPaths, "proto-path", nil, "Additional import path for proto files (repeatable)")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to config file (default: .jsonmockrc.yaml)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
}

// addServeFlags registers the source flags plus the HTTP server flags.
func addServeFlags(cmd *cobra.Command, f *serveFlags) {
	addSourceFlags(cmd, f)
	cmd.Flags().StringVar(&f.host, "host", cliconfig.DefaultHost, "Address to bind")
	cmd.Flags().IntVarP(&f.port, "port", "P", cliconfig.DefaultPort, "HTTP server port (0 picks a free port)")
	cmd.Flags().IntVar(&f.readTimeout, "read-timeout", cliconfig.DefaultReadTimeout, "Read timeout in seconds")
	cmd.Flags().IntVar(&f.writeTimeout, "write-timeout", cliconfig.DefaultWriteTimeout, "Write timeout in seconds")
	cmd.Flags().Int64Var(&f.maxBodySize, "max-body-size", cliconfig.DefaultMaxBodySize, "Maximum request body size in bytes")
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "Expose Prometheus metrics at /__metrics")
}

// resolveConfig layers explicitly set flags over defaults, config file and
// environment.
func resolveConfig(cmd *cobra.Command, f *serveFlags) (*cliconfig.CLIConfig, error) {
	cfg, err := cliconfig.LoadAll(f.configFile)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	flagCfg := &cliconfig.CLIConfig{SetFields: make(map[string]bool)}
	if fs.Changed("data") {
		flagCfg.Data = f.data
	}
	if fs.Changed("proto") {
		flagCfg.Proto = f.proto
	}
	if fs.Changed("openapi") {
		flagCfg.OpenAPI = f.openapi
	}
	if fs.Changed("schema") {
		flagCfg.JSONSchema = f.schema
	}
	if fs.Changed("host") {
		flagCfg.Host = f.host
	}
	if fs.Changed("port") {
		flagCfg.Port = f.port
		flagCfg.SetFields["port"] = true
	}
	if fs.Changed("read-timeout") {
		flagCfg.ReadTimeout = f.readTimeout
	}
	if fs.Changed("write-timeout") {
		flagCfg.WriteTimeout = f.writeTimeout
	}
	if fs.Changed("max-body-size") {
		flagCfg.MaxBodySize = f.maxBodySize
	}
	if fs.Changed("metrics") {
		flagCfg.Metrics = f.metrics
		flagCfg.SetFields["metrics"] = true
	}
	if fs.Changed("log-level") {
		flagCfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		flagCfg.LogFormat = f.logFormat
	}
	cliconfig.MergeConfig(cfg, flagCfg, cliconfig.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSources expands globs, reports every missing file at once and merges
// all sources in kind order.
func loadSources(ctx context.Context, cfg *cliconfig.CLIConfig, importPaths []string, log *slog.Logger) (resource.Document, error) {
	specs := slices.Concat(
		source.Specs(source.KindData, cfg.Data...),
		source.Specs(source.KindProto, cfg.Proto...),
		source.Specs(source.KindOpenAPI, cfg.OpenAPI...),
		source.Specs(source.KindJSONSchema, cfg.JSONSchema...),
	)

	specs, err := source.ExpandSpecs(specs)
	if err != nil {
		return nil, err
	}
	if err := source.CheckExists(specs); err != nil {
		return nil, err
	}

	loader := source.NewLoader(
		source.WithLogger(log),
		source.WithImportPaths(importPaths...),
	)
	return loader.LoadAll(ctx, specs)
}

// runServe loads the sources and serves them until interrupted. With
// helpWhenEmpty set, a missing source prints help instead of failing.
func runServe(cmd *cobra.Command, f *serveFlags, helpWhenEmpty bool) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	if !cfg.HasSources() {
		if helpWhenEmpty {
			return cmd.Help()
		}
		return ErrNoSources
	}

	log := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := loadSources(ctx, cfg, f.importPaths, log)
	if err != nil {
		return err
	}

	for _, name := range shadowedResources(doc) {
		output.Warn(cmd.ErrOrStderr(), "resource %q is only reachable for writes; GET /%s is reserved", name, name)
	}

	srv := server.New(resource.NewStore(doc), server.Options{
		Addr:         cfg.Addr(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		MaxBodySize:  cfg.MaxBodySize,
		Metrics:      cfg.Metrics,
		Logger:       log,
	})
	if err := srv.Start(); err != nil {
		return err
	}

	if err := printServeBanner(cmd.OutOrStdout(), srv, cfg.Metrics); err != nil {
		log.Warn("failed to print startup banner", "error", err)
	}
	if serveReadyHook != nil {
		serveReadyHook(srv)
	}

	select {
	case <-ctx.Done():
	case err, ok := <-srv.Err():
		if ok && err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printServeBanner(w io.Writer, srv *server.Server, metrics bool) error {
	store := srv.Store()
	out := ServeOutput{
		URL:       srv.URL(),
		Resources: store.List(),
		Routes:    store.Routes(),
		Metrics:   metrics,
	}

	return printResult(w, out, func() {
		fmt.Fprintf(w, "jsonmock is running at %s\n\n", out.URL)
		fmt.Fprintln(w, "Resources:")
		if len(out.Resources) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		tw := output.Table(w)
		for _, name := range out.Resources {
			fmt.Fprintf(tw, "  %s\t%s/%s\n", name, out.URL, name)
		}
		_ = tw.Flush()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Home:    %s/\n", out.URL)
		fmt.Fprintf(w, "Health:  %s/__health\n", out.URL)
		if metrics {
			fmt.Fprintf(w, "Metrics: %s/__metrics\n", out.URL)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Press Ctrl+C to stop")
	})
}

// shadowedResources returns resource names whose GET routes collide with the
// reserved operational endpoints.
func shadowedResources(doc resource.Document) []string {
	var names []string
	for _, name := range server.ReservedNames {
		if _, ok := doc[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
