package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/metaobjects-dev/metaobjects/generator"
	"github.com/metaobjects-dev/metaobjects/internal/cli/config"
	"github.com/metaobjects-dev/metaobjects/internal/cli/ui"
)

// NewGenerateCommand creates the generate command: run the configured
// generators over the loaded metadata graph.
func NewGenerateCommand() *cobra.Command {
	var (
		verbose bool
		output  string
		names   []string
	)

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate code and schemas from metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync() //nolint:errcheck

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Generate.Output
			}
			if len(names) == 0 {
				names = cfg.Generate.Generators
			}

			l, _, _, err := bootstrap(log, args)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			for _, name := range names {
				gen, err := generator.ByName(name)
				if err != nil {
					return err
				}
				path := filepath.Join(output, outputFileName(name))
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				genErr := gen.Generate(f, l)
				closeErr := f.Close()
				if genErr != nil {
					return fmt.Errorf("generator %q: %w", name, genErr)
				}
				if closeErr != nil {
					return closeErr
				}
				ui.Success(cmd.OutOrStdout(), "%s -> %s", name, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from metaobjects.yml)")
	cmd.Flags().StringSliceVarP(&names, "generator", "g", nil, "generators to run (default from metaobjects.yml)")
	return cmd
}

func outputFileName(generatorName string) string {
	switch generatorName {
	case "jsonschema":
		return "schema.json"
	case "gostruct":
		return "model.go"
	default:
		return generatorName + ".out"
	}
}
