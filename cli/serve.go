package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/remodern-labs/remodern/audit"
	"github.com/remodern-labs/remodern/config"
	"github.com/remodern-labs/remodern/mcp"
	remodernotel "github.com/remodern-labs/remodern/otel"
	"github.com/remodern-labs/remodern/tool"
)

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool registry over line-delimited JSON-RPC",
		Long:  "Serve the tool registry over line-delimited JSON-RPC, on stdio by default or on a TCP listener with --listen.",
		RunE:  runServe,
	}

	cmd.Flags().StringP("listen", "l", "", "TCP listen address (default: serve on stdio)")
	cmd.Flags().String("config", "", "Path to remodern.yaml config")
	cmd.Flags().String("audit-path", "", "Path to the SQLite audit database (default: ~/.remodern/remodern.db)")
	cmd.Flags().Bool("no-audit", false, "Disable invocation auditing")
	cmd.Flags().String("otel-endpoint", "", "OTLP trace endpoint, e.g. localhost:4318")
	cmd.Flags().Bool("otel-insecure", false, "Use plain HTTP for the OTLP endpoint")
	cmd.Flags().String("log-level", "", "Log level: debug | info | warn | error")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observers []tool.Observer

	if !cfg.AuditDisabled {
		store, recorder, err := openAudit(cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()
		observers = append(observers, recorder)

		if cfg.AuditRetentionDays > 0 {
			pruner, err := startAuditPruner(ctx, cfg, store, logger)
			if err != nil {
				return err
			}
			defer pruner.Stop()
		}
	}

	if cfg.OTelEndpoint != "" {
		tp, err := remodernotel.NewTracerProvider(ctx, remodernotel.TracerProviderConfig{
			Endpoint:       cfg.OTelEndpoint,
			ServiceName:    "remodern",
			ServiceVersion: cmd.Root().Version,
			Insecure:       cfg.OTelInsecure,
		})
		if err != nil {
			return exitError(exitRuntime, "initializing trace exporter: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()

		toolObserver, err := remodernotel.NewToolObserver(
			otelapi.GetMeterProvider().Meter("remodern/tool"),
			tp.Tracer("remodern/tool"),
		)
		if err != nil {
			return exitError(exitRuntime, "initializing tool observability: %v", err)
		}
		observers = append(observers, toolObserver)
	}

	registry, err := newRegistry(cfg, observers...)
	if err != nil {
		return err
	}
	info := mcp.ServerInfo{Name: "remodern", Version: cmd.Root().Version}

	if cfg.Listen == "" {
		logger.Info("serving on stdio", "tools", registry.Size())
		srv, err := mcp.NewServer(mcp.ServerConfig{
			Registry: registry,
			Reader:   cmd.InOrStdin(),
			Writer:   cmd.OutOrStdout(),
			Info:     info,
			Logger:   logger,
		})
		if err != nil {
			return exitError(exitRuntime, "creating server: %v", err)
		}
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return exitError(exitRuntime, "server error: %v", err)
		}
		return nil
	}

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return exitError(exitRuntime, "listening on %s: %v", cfg.Listen, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "remodern listening on %s\n", lis.Addr())
	logger.Info("serving on tcp", "addr", lis.Addr().String(), "tools", registry.Size())

	err = mcp.ServeListener(ctx, lis, mcp.ListenerConfig{
		Registry: registry,
		Info:     info,
		Logger:   logger,
	})
	if err != nil {
		return exitError(exitRuntime, "server error: %v", err)
	}
	return nil
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("listen") {
		cfg.Listen, _ = cmd.Flags().GetString("listen")
	}
	if cmd.Flags().Changed("audit-path") {
		cfg.AuditPath, _ = cmd.Flags().GetString("audit-path")
	}
	if noAudit, _ := cmd.Flags().GetBool("no-audit"); noAudit {
		cfg.AuditDisabled = true
	}
	if cmd.Flags().Changed("otel-endpoint") {
		cfg.OTelEndpoint, _ = cmd.Flags().GetString("otel-endpoint")
	}
	if insecure, _ := cmd.Flags().GetBool("otel-insecure"); insecure {
		cfg.OTelInsecure = true
	}
}

func openAudit(cfg config.Config, logger *slog.Logger) (*audit.Store, *audit.Recorder, error) {
	dsn := cfg.AuditPath
	if dsn == "" {
		var err error
		dsn, err = audit.DefaultPath()
		if err != nil {
			return nil, nil, exitError(exitRuntime, "resolving audit path: %v", err)
		}
	}
	store, err := audit.NewStore(audit.StoreConfig{DSN: dsn})
	if err != nil {
		return nil, nil, exitError(exitRuntime, "opening audit store: %v", err)
	}
	return store, audit.NewRecorder(store, logger), nil
}

// startAuditPruner schedules periodic removal of audit entries older than the
// configured retention window.
func startAuditPruner(ctx context.Context, cfg config.Config, store *audit.Store, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cfg.AuditPruneSchedule, func() {
		cutoff := time.Now().AddDate(0, 0, -cfg.AuditRetentionDays)
		removed, err := store.Prune(ctx, cutoff)
		if err != nil {
			logger.Warn("audit prune failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Info("pruned audit entries", "removed", removed, "cutoff", cutoff)
		}
	})
	if err != nil {
		return nil, exitError(exitConfig, "invalid audit prune schedule %q: %v", cfg.AuditPruneSchedule, err)
	}
	c.Start()
	return c, nil
}
