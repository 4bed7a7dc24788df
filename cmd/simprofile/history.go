package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/config"
	"github.com/nao1215/simprofile/internal/database"
	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/report"
)

// defaultHistoryLimit is the number of snapshots shown by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [username]",
		Short: "Show saved snapshots of a profile",
		Long: `History lists the snapshots "simprofile show" saved for a user, oldest
first, with the change in views and credits since the previous snapshot.
A snapshot whose projects did not change at all is marked unchanged.

Without a username, history lists every user with saved snapshots.

Examples:
  # Show the last 20 snapshots of alice
  simprofile history alice

  # Show every snapshot as JSON
  simprofile history alice -n 0 -f json

  # Render a saved snapshot again
  simprofile history --snapshot 1f0c2a7e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	addFormatFlag(cmd)

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Show only the most recent snapshots (0 shows all)")
	cmd.Flags().String("snapshot", "",
		"Render the profile stored with this snapshot ID")
	cmd.Flags().String("db-dir", "",
		"Snapshot database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := validateFormat(cfg.Format); err != nil {
		return err
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return err
		}
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	snapshotID, err := cmd.Flags().GetString("snapshot")
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	out := cmd.OutOrStdout()

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No snapshots saved yet.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if snapshotID != "" {
		p, err := db.Profile(ctx, snapshotID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("snapshot not found: %s", snapshotID)
		}
		_, err = newProfileWriter(cfg, out).Write(p)
		return err
	}

	if len(args) == 0 {
		users, err := db.Users(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No snapshots saved yet.")
		}
		for _, u := range users {
			fmt.Fprintf(out, "@%s\n", u)
		}
		return nil
	}

	id, err := identity.Static(args[0]).Resolve(ctx)
	if err != nil {
		return err
	}

	snapshots, err := db.History(ctx, id.Username, limit)
	if err != nil {
		return err
	}

	w := report.NewWriter(report.Format(cfg.Format), out, cfg.Verbose)
	_, err = w.WriteHistory(&report.History{Username: id.Username, Snapshots: snapshots})
	return err
}

// validateFormat checks a report format for commands that take no profile.
func validateFormat(format string) error {
	cfg := config.NewConfig()
	cfg.Usernames = []string{"-"}
	cfg.Format = format
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}
