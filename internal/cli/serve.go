// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mio/internal/server"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	var addr, modeFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web chat",
		Long: `Start the web chat on a local address.

The page works without JavaScript. POST /api/chat and POST /api/summarize
accept JSON for scripted use, and GET /health reports the provider state.`,
		Example: `  mio serve
  mio serve --addr 127.0.0.1:9000 --mode summarize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			m, err := mode(cfg, modeFlag)
			if err != nil {
				return err
			}
			logger, err := a.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			gw, err := a.gateway(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(gw, server.Options{
				Addr:         cfg.Server.Addr,
				Mode:         m,
				Greeting:     cfg.Chat.Greeting,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				CORSOrigins:  cfg.Server.CORSOrigins,
				Logger:       logger,
				Version:      Version,
			})
			return runServer(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "flow for page submissions: chat or summarize")
	return cmd
}

// runServer serves until ctx is cancelled or an interrupt arrives, then shuts
// down gracefully.
func runServer(ctx context.Context, srv *server.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
