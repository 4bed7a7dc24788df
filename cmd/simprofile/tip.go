package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/profile"
)

// NewTipCmd creates the tip command.
func NewTipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tip [username]",
		Short: "Tip 1000 credits to a websim user",
		Long: fmt.Sprintf(`Tip posts a comment carrying %d credits to one of the user's projects.

The project is chosen in this order:
  1. the --project flag
  2. tipProject of the user in the configuration file
  3. the user's own profile project

Without a username the tip goes to SIMPROFILE_USER.
Tipping needs an API token. Set it with SIMPROFILE_API_TOKEN in the
environment or in a .env file. A failed tip is reported and never retried.

Examples:
  simprofile tip alice
  simprofile tip alice --project k3j2h1g4f5d6s7a8 --yes`, profile.TipCredits),
		Args: cobra.MaximumNArgs(1),
		RunE: runTipCmd,
	}

	addConnectionFlags(cmd)

	cmd.Flags().String("project", "",
		"ID of the project to tip")
	cmd.Flags().BoolP("yes", "y", false,
		"Do not ask for confirmation")

	return cmd
}

// runTipCmd executes the tip command.
func runTipCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.APIToken == "" {
		return fmt.Errorf("%w: set SIMPROFILE_API_TOKEN", api.ErrMissingToken)
	}

	projectID, err := cmd.Flags().GetString("project")
	if err != nil {
		return err
	}
	skipConfirm, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg.Verbose)

	ctx, stop := signalContext(cmd)
	defer stop()

	id, err := profileOwner(cfg, args).Resolve(ctx)
	if err != nil {
		return err
	}

	pc := cfg.ProfileConfig(id.Username)
	if projectID == "" {
		projectID = pc.TipProject
	}

	client, err := newClient(cfg, pc, logger)
	if err != nil {
		return err
	}

	opts := []profile.Option{profile.WithLogger(logger)}
	if cfg.PageSize > 0 {
		opts = append(opts, profile.WithPageSize(cfg.PageSize))
	}
	page := profile.New(client, identity.Static(id.Username), opts...)

	target, err := page.TipTarget(ctx, projectID)
	if err != nil {
		return err
	}

	if !skipConfirm {
		fmt.Fprintf(cmd.OutOrStdout(), "Tip %d credits to project %s of @%s? [y/N]: ",
			profile.TipCredits, target, id.Username)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n') //nolint:errcheck // EOF means no
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if _, err := page.Tip(ctx, target); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "💎 Tipped %d credits to project %s of @%s.\n",
		profile.TipCredits, target, id.Username)
	return nil
}
