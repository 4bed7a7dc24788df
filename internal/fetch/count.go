package fetch

import (
	"context"
	"fmt"

	"github.com/nao1215/simprofile/internal/model"
)

// Count returns the size of the kind collection of username.
func Count(ctx context.Context, src Source, kind model.RelationKind, username string) (int64, error) {
	n, err := src.Count(ctx, kind, username)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s count of %s: %w", kind, username, err)
	}
	return n, nil
}
