package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/importer"
	"github.com/spf13/cobra"
)

var importOpts struct {
	profile  string
	timezone string
	warmups  bool
	dryRun   bool
}

var importCmd = &cobra.Command{
	Use:   "import <export.csv>",
	Short: "Import an Alpha Progression CSV export as logged sessions",
	Long: `Read a workout history export from Alpha Progression and store every
session, with its working sets, under the given profile.

Exercises missing from the catalog are created with a guessed muscle group.
Sessions are matched by start time, so re-importing a newer export updates
the sets already stored instead of duplicating them.

  $ liftlog import history.csv --profile Male --tz Europe/Berlin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := time.LoadLocation(importOpts.timezone)
		if err != nil {
			return fmt.Errorf("unknown time zone %q: %w", importOpts.timezone, err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()

		e, err := loadEnv(os.Stdout)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := importer.Options{
			Profile:  importOpts.profile,
			Location: loc,
			Warmups:  importOpts.warmups,
			DryRun:   importOpts.dryRun,
		}

		var store importer.Store
		if !opts.DryRun {
			db, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			store = db
		}

		st, err := importer.New(store, e.log).ImportAlpha(cmd.Context(), f, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if opts.DryRun {
			fmt.Fprintf(out, "dry run: %d sessions, %d sets, %d warmups skipped\n",
				st.SessionsRead, st.SetsSaved, st.WarmupsSkipped)
			return nil
		}
		fmt.Fprintf(out, "imported %d sessions (%d new, %d updated), %d sets, %d warmups skipped\n",
			st.SessionsRead, st.SessionsCreated, st.SessionsUpdated, st.SetsSaved, st.WarmupsSkipped)
		if len(st.NewExercises) > 0 {
			fmt.Fprintf(out, "new exercises: %s\n", strings.Join(st.NewExercises, ", "))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importOpts.profile, "profile", "p", "", "profile to import into (created if missing)")
	importCmd.Flags().StringVar(&importOpts.timezone, "tz", "UTC", "time zone the export's timestamps were recorded in")
	importCmd.Flags().BoolVar(&importOpts.warmups, "warmups", false, "also store warmup sets")
	importCmd.Flags().BoolVar(&importOpts.dryRun, "dry-run", false, "parse and count without writing")
	_ = importCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(importCmd)
}
