package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remodern-labs/remodern/config"
	"github.com/remodern-labs/remodern/tool"
	"github.com/remodern-labs/remodern/tools"
)

// loadConfig resolves and loads the effective config for a command, starting
// from the discovered config file and applying flag overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicitPath, _ := cmd.Flags().GetString("config")
	path, found, err := config.Discover(explicitPath)
	if err != nil {
		return config.Config{}, exitError(exitConfig, "%v", err)
	}

	cfg := config.Default()
	if found {
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, exitError(exitConfig, "%v", err)
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

// newRegistry builds a registry holding the built-in tool set, minus any
// tools disabled in the config.
func newRegistry(cfg config.Config, observers ...tool.Observer) (*tool.Registry, error) {
	reg := tool.NewRegistry(tool.WithObserver(tool.MultiObserver(observers...)))
	if err := tools.RegisterAll(reg, cfg.DisabledTools...); err != nil {
		return nil, exitError(exitRuntime, "registering built-in tools: %v", err)
	}
	return reg, nil
}

// newLogger creates the CLI logger. Diagnostics go to stderr so stdout stays
// free for protocol traffic and command output.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
