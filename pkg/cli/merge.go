package cli

import (
	"github.com/getmockd/jsonmock/pkg/cli/internal/output"
	"github.com/getmockd/jsonmock/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	mergeFlagVals serveFlags
	mergeYAML     bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Print the merged document built from all sources",
	Long: `Load and merge every source exactly as serve would, then print the
resulting document instead of serving it. Useful to inspect generated samples
or to snapshot a set of fixtures into one file.`,
	Example: `  # Inspect the merged result as JSON
  jsonmock merge -d users.json -d orders.yaml

  # Write samples generated from an OpenAPI document as YAML
  jsonmock merge --openapi api.yaml --yaml > db.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, &mergeFlagVals)
		if err != nil {
			return err
		}
		if !cfg.HasSources() {
			return ErrNoSources
		}

		log := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		doc, err := loadSources(cmd.Context(), cfg, mergeFlagVals.importPaths, log)
		if err != nil {
			return err
		}

		if mergeYAML {
			return output.YAML(cmd.OutOrStdout(), doc)
		}
		return output.JSON(cmd.OutOrStdout(), doc)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	addSourceFlags(mergeCmd, &mergeFlagVals)
	mergeCmd.Flags().BoolVar(&mergeYAML, "yaml", false, "Print YAML instead of JSON")
}
