package main

import (
	"os/signal"
	"syscall"

	"github.com/Ujjwal-270/Stock-Prediction/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the forecast json api",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			src, closeSrc := buildSource(ctx, a.cfg)
			defer closeSrc()

			return server.New(a.cfg.Server, a.cfg.Forecast, src).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config")
	return cmd
}
