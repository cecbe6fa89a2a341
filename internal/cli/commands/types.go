package commands

import (
	"github.com/spf13/cobra"

	"github.com/metaobjects-dev/metaobjects/constraint"
	"github.com/metaobjects-dev/metaobjects/internal/cli/ui"
	"github.com/metaobjects-dev/metaobjects/provider"
	"github.com/metaobjects-dev/metaobjects/registry"
)

// NewTypesCommand creates the types command: list every registered
// (type, subType) with its inheritance parent.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered metadata types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := registry.New(nil)
			if err := provider.RegisterAll(types, constraint.NewRegistry(), provider.Builtin()...); err != nil {
				return err
			}

			table := ui.NewTable(cmd.OutOrStdout(), "TYPE", "SUBTYPE", "INHERITS", "DESCRIPTION")
			for _, id := range types.TypeIDs() {
				eff, err := types.FindType(id.Type, id.SubType)
				if err != nil {
					return err
				}
				inherits := ""
				if len(eff.Ancestors) > 0 {
					inherits = eff.Ancestors[0].String()
				}
				table.AddRow(id.Type, id.SubType, inherits, eff.Description)
			}
			table.Render()
			return nil
		},
	}
}
