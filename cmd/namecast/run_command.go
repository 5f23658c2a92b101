package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"namecast/internal/attempts"
	"namecast/internal/config"
	"namecast/internal/logging"
	"namecast/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var referenceFlag string

	cmd := &cobra.Command{
		Use:   "run <video> <name>",
		Short: "Produce a personalized video for one name",
		Long: "Synthesizes the name, clones the reference voice onto it, and splices\n" +
			"the result into the template video's silent gap. On success the produced\n" +
			"video path is the only line written to stdout.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			reference, err := resolveReference(cfg, referenceFlag)
			if err != nil {
				return err
			}

			store, err := attempts.Open(cfg.AttemptsDBPath())
			if err != nil {
				return fmt.Errorf("open attempts store: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := pipeline.New(cfg, logger, store)
			outputPath, err := runner.Run(runCtx, pipeline.Request{
				VideoPath:     args[0],
				Name:          args[1],
				ReferencePath: reference,
			})
			if err != nil {
				return err
			}

			// The produced path is the process's machine-readable result;
			// all diagnostics go to stderr via the logger.
			fmt.Fprintln(cmd.OutOrStdout(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&referenceFlag, "reference", "r", "", "Reference voice sample (defaults to reference.wav in the reference directory)")
	return cmd
}

func resolveReference(cfg *config.Config, flag string) (string, error) {
	if flag != "" {
		return config.ExpandPath(flag)
	}
	if cfg.Paths.ReferenceDir == "" {
		return "", fmt.Errorf("no reference sample given and no reference directory configured")
	}
	return config.ExpandPath(cfg.Paths.ReferenceDir + "/reference.wav")
}
