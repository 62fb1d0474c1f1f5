package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.AuditRetentionDays != 30 {
		t.Fatalf("AuditRetentionDays = %d, want 30", cfg.AuditRetentionDays)
	}
	if cfg.AuditPruneSchedule != "0 * * * *" {
		t.Fatalf("AuditPruneSchedule = %q", cfg.AuditPruneSchedule)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Listen != "" {
		t.Fatalf("Listen = %q, want empty (stdio)", cfg.Listen)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remodern.yaml")
	content := `
listen: "127.0.0.1:7423"
audit_path: /var/lib/remodern/audit.db
audit_retention_days: 7
otel_endpoint: "collector:4318"
otel_insecure: true
disabled_tools:
  - binary-inspect
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:7423" {
		t.Fatalf("Listen = %q", cfg.Listen)
	}
	if cfg.AuditRetentionDays != 7 {
		t.Fatalf("AuditRetentionDays = %d", cfg.AuditRetentionDays)
	}
	// Defaults still apply to unset fields.
	if cfg.AuditPruneSchedule != "0 * * * *" {
		t.Fatalf("AuditPruneSchedule = %q, want default", cfg.AuditPruneSchedule)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "binary-inspect" {
		t.Fatalf("DisabledTools = %v", cfg.DisabledTools)
	}
	if cfg.OTelEndpoint != "collector:4318" || !cfg.OTelInsecure {
		t.Fatalf("OTel config = %q insecure=%v", cfg.OTelEndpoint, cfg.OTelInsecure)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "listen: [unclosed"},
		{name: "negative retention", content: "audit_retention_days: -1"},
		{name: "unknown log level", content: "log_level: loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("Load() = nil error, want failure")
			}
		})
	}
}

func TestDiscoverFrom(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	t.Run("nothing found", func(t *testing.T) {
		path, found, err := DiscoverFrom("", cwd, home)
		if err != nil {
			t.Fatalf("DiscoverFrom() error = %v", err)
		}
		if found || path != "" {
			t.Fatalf("DiscoverFrom() = %q found=%v, want absent", path, found)
		}
	})

	t.Run("explicit missing is an error", func(t *testing.T) {
		if _, _, err := DiscoverFrom(filepath.Join(cwd, "nope.yaml"), cwd, home); err == nil {
			t.Fatal("DiscoverFrom() explicit missing = nil error")
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		homeCfg := filepath.Join(home, ".remodern", "config.yaml")
		if err := os.MkdirAll(filepath.Dir(homeCfg), 0o700); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(homeCfg, []byte("log_level: warn\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		path, found, err := DiscoverFrom("", cwd, home)
		if err != nil {
			t.Fatalf("DiscoverFrom() error = %v", err)
		}
		if !found || path != homeCfg {
			t.Fatalf("DiscoverFrom() = %q found=%v, want %q", path, found, homeCfg)
		}
	})

	t.Run("project config wins", func(t *testing.T) {
		projectCfg := filepath.Join(cwd, "remodern.yaml")
		if err := os.WriteFile(projectCfg, []byte("log_level: error\n"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		path, found, err := DiscoverFrom("", cwd, home)
		if err != nil {
			t.Fatalf("DiscoverFrom() error = %v", err)
		}
		if !found || path != projectCfg {
			t.Fatalf("DiscoverFrom() = %q found=%v, want %q", path, found, projectCfg)
		}
	})
}
