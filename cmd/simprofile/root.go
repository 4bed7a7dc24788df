package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/model"
)

// NewRootCmd creates the root command for simprofile.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simprofile",
		Short: "Render websim user profiles from the command line",
		Long: `simprofile renders the public profile of a websim user by paging through
the websim REST API: follower and following counts, every published project
with its views, likes and comments, and the credits each project received.

Project stats load concurrently; a failure in one part of a profile only
degrades that part. Loaded profiles are saved as snapshots so that
"simprofile history" can show how a profile changed over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .simprofile in current or home directory)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewRelationsCmd(model.RelationFollowers))
	cmd.AddCommand(NewRelationsCmd(model.RelationFollowing))
	cmd.AddCommand(NewTipCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
