package main

import (
	"os"

	"github.com/meltforce/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(os.Stdout)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := storage.RunMigrations(e.cfg.Database.DSN()); err != nil {
			return err
		}
		e.log.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
