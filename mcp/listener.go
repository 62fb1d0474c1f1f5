package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/remodern-labs/remodern/tool"
)

// ListenerConfig configures a multi-connection protocol listener.
type ListenerConfig struct {
	Registry *tool.Registry
	Info     ServerInfo
	Logger   *slog.Logger
}

// ServeListener accepts connections and runs one dispatcher loop per
// connection over the shared registry. Each loop keeps strict
// request-then-response ordering on its own stream. The listener stops when
// ctx is cancelled or the listener is closed.
func ServeListener(ctx context.Context, lis net.Listener, cfg ListenerConfig) error {
	if lis == nil {
		return errors.New("mcp: listener is required")
	}
	if cfg.Registry == nil {
		return errors.New("mcp: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-gctx.Done()
		_ = lis.Close()
		return nil
	})

	group.Go(func() error {
		for {
			conn, err := lis.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}

			logger.Info("client connected", "remote", conn.RemoteAddr())
			group.Go(func() error {
				defer func() {
					_ = conn.Close()
					logger.Info("client disconnected", "remote", conn.RemoteAddr())
				}()

				server, err := NewServer(ServerConfig{
					Registry: cfg.Registry,
					Reader:   conn,
					Writer:   conn,
					Info:     cfg.Info,
					Logger:   logger,
				})
				if err != nil {
					return err
				}
				if err := server.Run(gctx); err != nil && gctx.Err() == nil {
					logger.Warn("connection loop ended", "remote", conn.RemoteAddr(), "error", err)
				}
				// A single bad connection never brings the listener down.
				return nil
			})
		}
	})

	err := group.Wait()
	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
