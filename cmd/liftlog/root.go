package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Workout tracking and strength analytics server",
	Long: `LiftLog stores planned workouts and logged sets in PostgreSQL and serves
training analytics (tonnage, adherence, estimated 1RM, volume trends, sets per
muscle group and rep-range distribution) over a JSON API.

  $ liftlog migrate        # apply database migrations
  $ liftlog seed           # load the demo catalog, plan and sample sessions
  $ liftlog import x.csv   # import an Alpha Progression export
  $ liftlog serve          # run the HTTP API
  $ liftlog mcp            # expose the analytics to MCP clients over stdio`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
}

// env is what every subcommand loads before doing its work.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

// loadEnv reads the config and builds the logger, writing to logTo unless a
// log file is configured.
func loadEnv(logTo io.Writer) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log, closer := logging.NewWithWriter(cfg.Log, logTo)
	return &env{cfg: cfg, log: log, closer: closer}, nil
}

func (e *env) Close() {
	_ = e.closer.Close()
}

// openDB migrates the schema and connects the pool.
func (e *env) openDB(ctx context.Context) (*storage.DB, error) {
	dsn := e.cfg.Database.DSN()
	if err := storage.RunMigrations(dsn); err != nil {
		return nil, err
	}
	e.log.Info("migrations applied")

	db, err := storage.New(ctx, dsn, e.cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	e.log.Info("database connected", "host", e.cfg.Database.Host, "name", e.cfg.Database.Name)
	return db, nil
}
