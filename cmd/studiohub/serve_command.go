package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"studiohub/internal/hub"
	"studiohub/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the hub: watch the poster roots and keep the index fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			h, err := hub.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := h.Start(signalCtx); err != nil {
				return err
			}
			defer h.Close()

			<-signalCtx.Done()
			logger.Info("studiohub shutting down")
			return nil
		},
	}
}
