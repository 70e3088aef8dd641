package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsonmock",
	Short: "jsonmock turns JSON, YAML and schema files into a mock REST API",
	Long: `jsonmock hosts a full CRUD REST API from plain data files with zero configuration.

Every top-level key of the merged data becomes a resource with GET, POST, PUT,
PATCH and DELETE routes. Sources can be JSON or YAML data, Protocol Buffers,
OpenAPI or JSON Schema definitions, given as local paths, globs, http(s) URLs
or s3:// locations.

Configuration can be provided via flags, environment variables, or a configuration
file. By default, jsonmock looks for .jsonmockrc.yaml in the current directory.`,
	Example: `  # Serve a data file
  jsonmock -d db.json

  # Merge several sources
  jsonmock serve -d users.json -d 'fixtures/**/*.yaml' --openapi api.yaml`,
	// Without sources the root command prints help.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &rootFlagVals, true)
	},
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	addServeFlags(rootCmd, &rootFlagVals)
}
