// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MarceloDCastro/chat-ai/internal/config"
	"github.com/MarceloDCastro/chat-ai/internal/logger"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "none"
	BuildDate = "unknown"
)

// rootFlags holds the global command-line flags.
type rootFlags struct {
	configPath string
	model      string
	provider   string
	store      string
	plain      bool
	debug      bool
}

// NewRootCmd builds the chat-ai command tree.
func NewRootCmd() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:   "chat-ai",
		Short: "Terminal chat over a streaming completion API",
		Long: `chat-ai is a terminal chat client for OpenAI-compatible and Ollama
completion endpoints. Replies stream in as they are generated.

Keys (TUI):
  enter    send the message
  ctrl+t   toggle light/dark theme
  pgup     scroll the transcript
  ctrl+c   quit

Configuration is read from ~/.chat-ai/config.toml, then CHAT_AI_*
environment variables (also from a .env file), then flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), f, cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.configPath, "config", "c", "", "config file (default ~/.chat-ai/config.toml)")
	flags.StringVarP(&f.model, "model", "m", "", "model name (overrides config)")
	flags.StringVar(&f.provider, "provider", "", "completion provider: openai or ollama")
	flags.StringVar(&f.store, "store", "", "preference store: file, sqlite, redis or memory")
	flags.BoolVar(&f.plain, "plain", false, "use the line-based interface instead of the TUI")
	flags.BoolVar(&f.debug, "debug", false, "enable debug logging")

	cmd.Version = Version
	cmd.SetVersionTemplate(versionText())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

func versionText() string {
	if GitCommit != "none" && GitCommit != "" {
		return fmt.Sprintf("chat-ai %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate)
	}
	return fmt.Sprintf("chat-ai %s\n", Version)
}

// =============================================================================
// STARTUP
// =============================================================================

func runChat(ctx context.Context, f rootFlags, out io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger.SetDebug(cfg.Log.Debug)
	if err := logger.Init(cfg.Log.Path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	defer logger.Close()

	logger.Info("starting chat-ai %s (provider=%s, store=%s)",
		Version, cfg.Completion.Provider, cfg.Storage.Backend)

	app := NewApp(ctx, cfg, out)
	defer app.Close()

	if f.plain || !isTerminal() {
		return runPlain(app, out)
	}
	return runTUI(app)
}

// loadConfig reads the config file and applies the flag overrides.
func loadConfig(f rootFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	err = cfg.ApplyOverrides(config.Overrides{
		Provider: f.provider,
		Model:    f.model,
		Store:    f.store,
		Debug:    f.debug,
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// isTerminal reports whether both stdin and stdout are attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
