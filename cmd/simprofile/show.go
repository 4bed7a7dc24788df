package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/simprofile/internal/config"
	"github.com/nao1215/simprofile/internal/database"
	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/pipeline"
	"github.com/nao1215/simprofile/internal/profile"
	"github.com/nao1215/simprofile/internal/report"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <username>...",
		Short: "Render the profile of one or more websim users",
		Long: `Show loads and renders websim profiles.

For each user it fetches the follower and following counts and every
published project, then requests the stats of all projects at once to add
up the credits the user received. A failure in one part only degrades that
part: a missing count shows as N/A, a project whose stats failed counts as
0 credits.

Examples:
  # Show a profile
  simprofile show alice

  # Show several profiles, two at a time
  simprofile show alice bob carol --batch 2

  # Most tipped projects first, with live progress
  simprofile show alice --sort-by credits --progress

  # Write a Markdown report with a credits chart
  simprofile show alice -f markdown -o reports/alice.md

  # Write a JSON report and print the text view as well
  simprofile show alice -f json -o alice.json --tee

Configuration file (.simprofile) example:
  defaults:
    sortBy: view_count
  profiles:
    alice:
      sortBy: credits
      sortOrder: asc`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShowCmd,
	}

	addConnectionFlags(cmd)
	addFormatFlag(cmd)

	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the text report to stdout")
	cmd.Flags().StringP("sort-by", "s", string(model.SortLastUpdated),
		"Sort projects by: last_updated, last_published, view_count, likes, comments or credits")
	cmd.Flags().String("sort-order", string(model.SortDesc),
		"Sort order: asc or desc")
	cmd.Flags().Int("stats-concurrency", config.DefaultStatsConcurrency,
		"Maximum concurrent stats requests per profile (0 means all at once)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchConcurrency,
		"Number of profiles loaded at once")
	cmd.Flags().IntP("limit", "l", 0,
		"Show at most this many projects in text output (0 shows all)")
	cmd.Flags().BoolP("progress", "p", false,
		"Print project stats to stderr as they arrive")
	cmd.Flags().Bool("no-save", false,
		"Do not save a snapshot of the profile")
	cmd.Flags().String("db-dir", "",
		"Snapshot database directory (default: XDG data directory)")

	return cmd
}

// showRun holds everything one show invocation shares between profiles.
type showRun struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.SnapshotDB

	// sortBy and sortOrder are set when given on the command line; they
	// override the per-user settings of the config file.
	sortBy    model.SortKey
	sortOrder model.SortOrder

	// progress receives live progress lines.
	progress io.Writer

	// tee prints the text report to stdout next to the report file.
	tee bool
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	run := &showRun{cfg: cfg, progress: cmd.ErrOrStderr()}
	if err := run.applyFlags(cmd); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	run.logger = newLogger(cmd, cfg.Verbose)

	ctx, stop := signalContext(cmd)
	defer stop()

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		run.db = db
	}

	out, closeOut, err := openOutput(cfg.ReportFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // The report was flushed by the writer

	w := newProfileWriter(cfg, out)
	if run.tee && cfg.ReportFile != "" {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(cmd.OutOrStdout(),
			report.WithVerbose(cfg.Verbose),
			report.WithLimit(cfg.Limit),
		))
	}

	return run.showAll(ctx, w)
}

// applyFlags copies the show flags into the run.
func (r *showRun) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("sort-by") {
		value, _ := flags.GetString("sort-by") //nolint:errcheck // Flag is defined above
		if r.sortBy, err = model.ParseSortKey(value); err != nil {
			return err
		}
		r.cfg.Sort.By = r.sortBy
	}
	if flags.Changed("sort-order") {
		value, _ := flags.GetString("sort-order") //nolint:errcheck // Flag is defined above
		if r.sortOrder, err = model.ParseSortOrder(value); err != nil {
			return err
		}
		r.cfg.Sort.Order = r.sortOrder
	}
	if flags.Changed("stats-concurrency") {
		if r.cfg.StatsConcurrency, err = flags.GetInt("stats-concurrency"); err != nil {
			return err
		}
	}
	if r.cfg.BatchConcurrency, err = flags.GetInt("batch"); err != nil {
		return err
	}
	if r.cfg.Limit, err = flags.GetInt("limit"); err != nil {
		return err
	}
	if r.cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	if r.cfg.Progress, err = flags.GetBool("progress"); err != nil {
		return err
	}
	if r.tee, err = flags.GetBool("tee"); err != nil {
		return err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return err
	}
	r.cfg.SaveToDB = !noSave

	if flags.Changed("db-dir") {
		if r.cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	return nil
}

// showAll loads every profile with a BatchProcessor and writes each one as
// soon as it is ready.
func (r *showRun) showAll(ctx context.Context, w report.Writer) error {
	bp := pipeline.NewBatchProcessor(r.load,
		pipeline.WithConcurrency(r.cfg.BatchConcurrency),
		pipeline.WithBatchLogger(r.logger),
	)

	start := time.Now()
	var mu sync.Mutex
	failed := 0

	err := bp.ProcessBatchWithCallback(ctx, r.cfg.Usernames, func(result pipeline.BatchResult, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if result.Err != nil {
			failed++
			r.logger.Error("failed to load profile", "user", result.Username, "error", result.Err)
			fmt.Fprintf(r.progress, "Error: @%s: %v\n", result.Username, result.Err)
			return
		}

		if _, err := w.Write(&result.Profile); err != nil {
			failed++
			r.logger.Error("report failed", "user", result.Username, "error", err)
			return
		}

		r.save(ctx, &result.Profile)
	})
	if err != nil {
		return err
	}

	r.logger.Info("profiles loaded",
		"total", len(r.cfg.Usernames),
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(r.cfg.Usernames))
	}
	return nil
}

// load loads one profile. It is the LoadFunc of the batch.
func (r *showRun) load(ctx context.Context, username string) (model.Profile, error) {
	pc := r.cfg.ProfileConfig(username)

	sort, err := pc.SortState(model.DefaultSortState())
	if err != nil {
		return model.Profile{}, fmt.Errorf("invalid sort in config file: %w", err)
	}

	client, err := newClient(r.cfg, pc, r.logger)
	if err != nil {
		return model.Profile{}, err
	}

	opts := []profile.Option{
		profile.WithLogger(r.logger),
		profile.WithSortState(sort),
		profile.WithStatsConcurrency(r.cfg.StatsConcurrency),
	}
	if r.cfg.PageSize > 0 {
		opts = append(opts, profile.WithPageSize(r.cfg.PageSize))
	}
	if r.cfg.Progress {
		pw := report.NewProgressWriter(r.progress, username)
		opts = append(opts,
			profile.WithStatsObserver(pw),
			profile.WithListedCallback(pw.Listed),
			profile.WithPageCallback(pw.Page),
		)
	}

	page := profile.New(client, identity.Static(username), opts...)
	r.applySort(page)

	if err := page.Load(ctx); err != nil {
		return model.Profile{}, err
	}
	return page.Snapshot()
}

// applySort applies the sort flags on top of the sort state the page was
// created with, the way the page's sort controls would.
func (r *showRun) applySort(page *profile.Page) {
	if r.sortBy != "" {
		page.SetSortKey(r.sortBy)
	}
	if r.sortOrder != "" && page.Sort().Order != r.sortOrder {
		page.ToggleOrder()
	}
}

// save stores a snapshot of the profile when saving is enabled.
// A failed save is logged; the report was already written.
func (r *showRun) save(ctx context.Context, p *model.Profile) {
	if r.db == nil {
		return
	}
	snap, err := r.db.Save(ctx, p)
	if err != nil {
		r.logger.Error("failed to save snapshot", "user", p.Username, "error", err)
		return
	}
	r.logger.Info("snapshot saved", "user", p.Username, "id", snap.ID)
}

// newProfileWriter creates the writer for rendered profiles.
func newProfileWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch report.Format(cfg.Format) {
	case report.FormatJSON:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case report.FormatMarkdown:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out,
			report.WithVerbose(cfg.Verbose),
			report.WithLimit(cfg.Limit),
		)
	}
}
