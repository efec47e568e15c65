package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/videotube/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
	)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
