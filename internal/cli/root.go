// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/config"
	"github.com/jeranaias/mio/internal/gateway"
	"github.com/jeranaias/mio/internal/logging"
	"github.com/jeranaias/mio/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ProviderFunc builds the model provider for a loaded config.
type ProviderFunc func(ctx context.Context, cfg *config.Config) (gateway.Provider, error)

// Option configures the command tree.
type Option func(*app)

// WithProvider replaces the config-driven provider factory.
func WithProvider(fn ProviderFunc) Option {
	return func(a *app) { a.providerFn = fn }
}

// app holds the state shared by every command.
type app struct {
	configPath string
	logLevel   string

	cfg        *config.Config
	providerFn ProviderFunc
}

// NewRootCmd builds the mio command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{providerFn: gateway.ProviderFromConfig}
	for _, opt := range opts {
		opt(a)
	}

	chatCmd := a.newChatCmd()
	root := &cobra.Command{
		Use:   "mio",
		Short: "Chat with Mio, a study companion backed by a hosted model",
		Long: `Mio relays your questions to a hosted language model and shows the
exchange as a chat transcript, in the browser or in the terminal.

Run without a command to open the terminal chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          chatCmd.RunE,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.mio/config.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.newServeCmd(),
		chatCmd,
		a.newAskCmd(),
		a.newSummarizeCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and reports any error on
// stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError("Error: "+err.Error()))
		return err
	}
	return nil
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the config once per invocation. --config wins over the
// default locations and --log-level wins over the file.
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	config.SetGlobal(cfg)
	a.cfg = cfg
	return cfg, nil
}

// logger builds a logger at the configured level writing to w.
func (a *app) logger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	return logging.New(w, cfg.Log.Level)
}

// gateway builds the gateway over the configured provider.
func (a *app) gateway(ctx context.Context, cfg *config.Config, logger *log.Logger) (*gateway.Gateway, error) {
	p, err := a.providerFn(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return gateway.New(p, gateway.WithLogger(logger)), nil
}

// mode resolves a --mode flag, falling back to chat.mode from the config.
func mode(cfg *config.Config, flag string) (actions.Mode, error) {
	if flag != "" {
		return actions.ParseMode(flag)
	}
	return actions.ParseMode(cfg.Chat.Mode)
}
