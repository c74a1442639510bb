package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/server"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/spf13/cobra"
	"tailscale.com/tsnet"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Apply pending migrations, connect to PostgreSQL and serve the JSON API.

With tailscale.enabled the server joins the tailnet through tsnet and listens
on :80 there instead of server.host:server.port. Request logs then carry the
caller's tailnet login.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(os.Stdout)
		if err != nil {
			return err
		}
		defer e.Close()
		return serve(cmd.Context(), e)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, e *env) error {
	log := e.log
	log.Info("LiftLog starting", "version", Version)

	db, err := e.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := metrics.NewRegistry()
	m := metrics.NewManager(reg)
	m.RegisterPool(db.Pool, e.cfg.Database.Name)

	engine := stats.New(db, time.Duration(e.cfg.Stats.QueryTimeout), log)
	srv := server.New(db, engine, m, e.cfg.Auth.APIKey, log)
	if e.cfg.Auth.APIKey == "" {
		log.Warn("auth.api_key is empty; write endpoints are unauthenticated")
	}

	// Start server: tsnet or plain TCP
	var listener net.Listener
	if e.cfg.Tailscale.Enabled {
		ts := &tsnet.Server{
			Hostname: e.cfg.Tailscale.Hostname,
			Dir:      e.cfg.Tailscale.StateDir,
		}
		if err := ts.Start(); err != nil {
			return fmt.Errorf("tsnet start: %w", err)
		}
		defer ts.Close()

		lc, err := ts.LocalClient()
		if err != nil {
			return fmt.Errorf("tsnet local client: %w", err)
		}
		srv.SetTailscale(lc)

		listener, err = ts.Listen("tcp", ":80")
		if err != nil {
			return fmt.Errorf("tsnet listen: %w", err)
		}
		log.Info("tsnet server starting", "hostname", e.cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", e.cfg.Server.Host, e.cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
	return nil
}
