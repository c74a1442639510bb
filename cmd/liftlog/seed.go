package main

import (
	"fmt"
	"os"

	"github.com/meltforce/liftlog/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog, weekly plan and sample sessions",
	Long: `Create the Male and Female demo profiles, the 20-exercise catalog, this
week's push/pull/legs plan with weight presets, one completed sample session
per profile and the units setting (lbs).

Seeding is idempotent: rows that already exist are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(os.Stdout)
		if err != nil {
			return err
		}
		defer e.Close()

		db, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := seed.New(db, e.log).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d profiles, %d exercises, %d new workouts, %d new sessions\n",
			res.Profiles, res.Exercises, res.Workouts, res.Sessions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
