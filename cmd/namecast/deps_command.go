package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"namecast/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := deps.CheckBinaries(deps.Required(cfg))

			rows := make([][]string, 0, len(results))
			for _, status := range results {
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					yesNo(status.Optional),
					status.Detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Available", "Optional", "Detail"},
				rows,
			))

			if missing := deps.MissingRequired(results); len(missing) > 0 {
				return fmt.Errorf("required dependencies are missing: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
