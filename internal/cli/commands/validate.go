package commands

import (
	"github.com/spf13/cobra"

	"github.com/metaobjects-dev/metaobjects/internal/cli/ui"
)

// NewValidateCommand creates the validate command: load the configured
// metadata sources and report whether the graph is legal.
func NewValidateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Load and validate metadata sources",
		Long: `Load the given metadata files (or the sources from metaobjects.yml),
classify every node against the registered type system, and enforce all
placement and value constraints. Exits non-zero on the first violation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			defer log.Sync() //nolint:errcheck

			l, _, _, err := bootstrap(log, args)
			if err != nil {
				ui.Failure(cmd.ErrOrStderr(), "validation failed: %v", err)
				return err
			}

			objs := l.Objects()
			ui.Success(cmd.OutOrStdout(), "metadata is valid: %d object(s) loaded", len(objs))
			for _, o := range objs {
				ui.Info(cmd.OutOrStdout(), "  %s (%s, %d fields)", o.QualifiedName(), o.SubType(), len(o.Fields()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
