// Package config provides server configuration loaded from a YAML file.
// All fields have safe defaults so the binary runs without any config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "remodern.yaml"
	homeConfigDir     = ".remodern"
	homeConfigName    = "config.yaml"
)

// Config holds runtime configuration for the remodern server.
type Config struct {
	// Listen is an optional TCP address; empty means serve over stdio.
	Listen string `yaml:"listen,omitempty"`

	// AuditPath is the SQLite path for the invocation audit store; empty
	// selects the default under the user's home.
	AuditPath string `yaml:"audit_path,omitempty"`
	// AuditDisabled turns invocation auditing off entirely.
	AuditDisabled bool `yaml:"audit_disabled,omitempty"`
	// AuditRetentionDays is how long invocation history is kept.
	AuditRetentionDays int `yaml:"audit_retention_days,omitempty"`
	// AuditPruneSchedule is a five-field UTC cron expression for retention
	// pruning.
	AuditPruneSchedule string `yaml:"audit_prune_schedule,omitempty"`

	// OTelEndpoint is an optional OTLP/HTTP collector host:port.
	OTelEndpoint string `yaml:"otel_endpoint,omitempty"`
	// OTelInsecure switches the OTLP exporter to plain HTTP.
	OTelInsecure bool `yaml:"otel_insecure,omitempty"`

	// DisabledTools lists tool names excluded from registration.
	DisabledTools []string `yaml:"disabled_tools,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		AuditRetentionDays: 30,
		AuditPruneSchedule: "0 * * * *",
		LogLevel:           "info",
	}
}

// Discover resolves the config file location with first-match semantics:
// explicit path, ./remodern.yaml, then ~/.remodern/config.yaml. A missing
// explicit path is an error; otherwise absence is not.
func Discover(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve user home: %w", err)
	}
	return DiscoverFrom(explicitPath, cwd, homeDir)
}

// DiscoverFrom is a testable variant of Discover.
func DiscoverFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	explicit := strings.TrimSpace(explicitPath) != ""

	candidates := make([]string, 0, 2)
	if explicit {
		candidates = append(candidates, filepath.Clean(strings.TrimSpace(explicitPath)))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return "", false, fmt.Errorf("config: file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("config: checking path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads a config file and applies defaults for unset values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AuditRetentionDays < 0 {
		return fmt.Errorf("config: audit_retention_days must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
