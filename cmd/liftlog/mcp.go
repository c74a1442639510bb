package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/stats"
	"github.com/spf13/cobra"
)

var remoteURL string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analytics as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout.

By default the tools read the database named in the config file. With --remote
they call a running LiftLog API instead, e.g. one reachable over Tailscale:

  {
    "mcpServers": {
      "liftlog": {
        "command": "liftlog",
        "args": ["mcp", "--remote", "http://liftlog.tail1234.ts.net"]
      }
    }
  }

TOOLS:

  list_profiles               Profiles and their ids
  get_profile_summary         Last session, 7-day tonnage and adherence
  get_overview                Tonnage, adherence, best e1RM and top 3 lifts
  get_volume_trend            Weekly tonnage
  get_e1rm_progression        Daily best e1RM for one exercise
  get_top_progression         Top 3 lifts' e1RM merged by date
  get_sets_per_muscle         Completed sets per muscle group
  get_intensity_distribution  Completed sets per rep range`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteURL != "" {
			log := slog.New(logging.NewHandler(os.Stderr, remoteLogConfig()))
			ds := mcp.NewHTTPClient(remoteURL, log)
			log.Info("mcp server starting", "mode", "remote", "url", remoteURL)
			return server.ServeStdio(mcp.New(ds, Version, log))
		}

		e, err := loadEnv(os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		db, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		engine := stats.New(db, time.Duration(e.cfg.Stats.QueryTimeout), e.log)
		e.log.Info("mcp server starting", "mode", "local")
		return server.ServeStdio(mcp.New(mcp.NewLocal(engine, db), Version, e.log))
	},
}

func init() {
	mcpCmd.Flags().StringVar(&remoteURL, "remote", "", "LiftLog API base URL; skips the database and config file")
	rootCmd.AddCommand(mcpCmd)
}

// remoteLogConfig honors the log env overrides when there is no config file.
func remoteLogConfig() config.LogConfig {
	return config.LogConfig{
		Level:  os.Getenv("LIFTLOG_LOG_LEVEL"),
		Format: os.Getenv("LIFTLOG_LOG_FORMAT"),
	}
}
