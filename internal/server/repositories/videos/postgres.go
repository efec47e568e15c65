package videos

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindWithOwners(ctx context.Context, ids []string) ([]*models.WatchHistoryItem, error) {
	if len(ids) == 0 {
		return []*models.WatchHistoryItem{}, nil
	}

	query := `
		SELECT v.id, v.title, v.thumbnail_url, v.duration_seconds, v.views, v.created_at,
		       a.full_name, a.username, a.avatar_url
		FROM videos v
		JOIN accounts a ON a.id = v.owner_id
		WHERE v.id = ANY($1::uuid[])
	`
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.WatchHistoryItem, 0, len(ids))
	for rows.Next() {
		item := &models.WatchHistoryItem{}
		err := rows.Scan(
			&item.ID, &item.Title, &item.ThumbnailURL, &item.DurationSeconds,
			&item.Views, &item.CreatedAt,
			&item.Owner.FullName, &item.Owner.Username, &item.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}
