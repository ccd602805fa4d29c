// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mio/internal/config"
	"github.com/jeranaias/mio/internal/logging"
	"github.com/jeranaias/mio/internal/ui/chat"
)

func (a *app) newChatCmd() *cobra.Command {
	var modeFlag, logFile string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the terminal chat",
		Long: `Open the terminal chat.

Enter sends, Alt+Enter adds a newline, /help lists commands. Logs go to a
file so they never draw over the chat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			m, err := mode(cfg, modeFlag)
			if err != nil {
				return err
			}

			if logFile == "" {
				dir, err := config.ConfigDir()
				if err != nil {
					return err
				}
				logFile = filepath.Join(dir, "mio.log")
			}
			if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
			logger, closer, err := logging.ToFile(logFile, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer closer.Close()

			gw, err := a.gateway(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			logger.Info("CHAT_START", "provider", gw.ProviderName(), "mode", m)
			return chat.Run(gw, chat.Options{
				Mode:     m,
				Greeting: cfg.Chat.Greeting,
				Logger:   logger,
			})
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "flow for submissions: chat or summarize")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default ~/.mio/mio.log)")
	return cmd
}
