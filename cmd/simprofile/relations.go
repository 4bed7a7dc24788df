package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/profile"
	"github.com/nao1215/simprofile/internal/report"
)

// NewRelationsCmd creates the followers or following command.
func NewRelationsCmd(kind model.RelationKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.String() + " [username]",
		Short: fmt.Sprintf("List the %s of a websim user", kind),
		Long: fmt.Sprintf(`List every user in the %[1]s list of a websim user.

The whole list is fetched page by page. If a page fails, the users fetched
before it are still listed and the list is marked incomplete.
Without a username the list of SIMPROFILE_USER is shown.

Examples:
  simprofile %[1]s alice
  simprofile %[1]s alice -f json`, kind),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelationsCmd(cmd, kind, args)
		},
	}

	addConnectionFlags(cmd)
	addFormatFlag(cmd)

	return cmd
}

// runRelationsCmd lists one relation kind of a user through the page's
// relation browser, the same way the profile page opens its modal.
func runRelationsCmd(cmd *cobra.Command, kind model.RelationKind, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.Verbose)

	ctx, stop := signalContext(cmd)
	defer stop()

	id, err := profileOwner(cfg, args).Resolve(ctx)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, cfg.ProfileConfig(id.Username), logger)
	if err != nil {
		return err
	}

	opts := []profile.Option{profile.WithLogger(logger)}
	if cfg.PageSize > 0 {
		opts = append(opts, profile.WithPageSize(cfg.PageSize))
	}
	page := profile.New(client, identity.Static(id.Username), opts...)
	defer page.CloseRelations()

	view, fetchErr := page.OpenRelations(ctx, kind)
	if fetchErr != nil && (view == nil || len(view.Users) == 0) {
		return fmt.Errorf("failed to load %s of @%s: %w", kind, id.Username, fetchErr)
	}

	list := &report.RelationList{
		Username: id.Username,
		Kind:     kind,
		Title:    view.Title,
		Users:    view.Users,
		Partial:  fetchErr != nil,
	}

	w := report.NewWriter(report.Format(cfg.Format), cmd.OutOrStdout(), cfg.Verbose)
	if _, err := w.WriteRelations(list); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}
