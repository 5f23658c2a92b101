package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"namecast/internal/attempts"
)

func newAttemptsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Show the clone-method history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := attempts.Open(cfg.AttemptsDBPath())
			if err != nil {
				return fmt.Errorf("open attempts store: %w", err)
			}
			defer store.Close()

			var records []attempts.Record
			if runID != "" {
				records, err = store.ByRun(cmd.Context(), runID)
			} else {
				records, err = store.ListRecent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.RunID,
					rec.Name,
					rec.Method,
					rec.Outcome,
					truncate(rec.Reason, 60),
					rec.CreatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Name", "Method", "Outcome", "Reason", "When"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent attempts to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show every attempt of one run")
	return cmd
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max-1] + "…"
}
