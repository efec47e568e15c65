// Package videos declares the repository contract for content records as the
// account backend sees them: joined reads for the watch-history view.
package videos

import (
	"context"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// Repository defines read operations over video records.
type Repository interface {
	// FindWithOwners returns the videos with the given ids, each joined to
	// the public projection of its owning account. Result order is whatever
	// the store produces; callers that need a specific order must re-sort.
	// Missing ids are silently absent from the result.
	FindWithOwners(ctx context.Context, ids []string) ([]*models.WatchHistoryItem, error)
}
