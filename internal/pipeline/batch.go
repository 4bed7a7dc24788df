package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/simprofile/internal/model"
	"golang.org/x/sync/errgroup"
)

// LoadFunc loads the profile of one username.
// An error means the profile could not be rendered at all, e.g. because
// the username could not be resolved.
type LoadFunc func(ctx context.Context, username string) (model.Profile, error)

// BatchResult is the outcome of loading one profile of a batch.
type BatchResult struct {
	// Username is the requested username.
	Username string

	// Profile is the loaded profile. It is the zero value when Err is set.
	Profile model.Profile

	// Err is the fatal error of this profile, or nil.
	Err error
}

// BatchProcessor handles concurrent loading of multiple profiles.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single profile
// 2. It provides cleaner separation of concerns
type BatchProcessor struct {
	// load loads one profile; each call gets a fresh page.
	load LoadFunc

	// concurrency is the maximum number of profiles loaded at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of profiles loaded at once.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(load LoadFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		load:        load,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatchWithCallback loads multiple profiles and calls a callback
// for each completed profile. This is useful for streaming results.
//
// The callback is called from the goroutine that loaded the profile, so it
// should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	usernames []string,
	callback func(result BatchResult, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_profiles", len(usernames),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, usernames, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, usernames []string, callback func(BatchResult, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, username := range usernames {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("loading profile",
				"user", username,
				"index", i+1,
				"total", len(usernames),
			)

			profile, err := bp.load(ctx, username)
			result := BatchResult{Username: username, Profile: profile, Err: err}
			if err != nil {
				// Don't return the error to the errgroup: the other
				// profiles keep loading.
				bp.logger.Warn("profile failed",
					"user", username,
					"error", err,
				)
				result.Profile = model.Profile{}
			}

			callback(result, i)
			return nil
		})
	}

	return g.Wait()
}
