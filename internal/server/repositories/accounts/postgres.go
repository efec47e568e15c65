package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// accountColumns is the select list shared by every account read.
const accountColumns = `id, username, email, full_name, avatar_url,
	COALESCE(cover_image_url, ''), password_hash,
	COALESCE(current_refresh_token, ''), created_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.FullName, &a.AvatarURL,
		&a.CoverImageURL, &a.PasswordHash, &a.CurrentRefreshToken, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, email, full_name, avatar_url, cover_image_url, password_hash)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.Email, account.FullName,
		account.AvatarURL, account.CoverImageURL, account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, identifier string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 OR email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id string, token string) error {
	query := `UPDATE accounts SET current_refresh_token = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SwapRefreshToken performs the conditional rotation write. The WHERE clause
// compares the stored token byte-for-byte; a NULL (revoked) slot never
// matches, so a token presented after logout is rejected the same way as a
// replayed one.
func (r *PostgresRepository) SwapRefreshToken(ctx context.Context, id string, oldToken string, newToken string) (bool, error) {
	query := `
		UPDATE accounts SET current_refresh_token = $3
		WHERE id = $1 AND current_refresh_token = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}

func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE accounts SET current_refresh_token = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateDetails(ctx context.Context, id string, fullName string, email string) (*models.Account, error) {
	query := `
		UPDATE accounts SET full_name = $2, email = $3
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, id, fullName, email))
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id string, url string) (*models.Account, error) {
	query := `
		UPDATE accounts SET avatar_url = $2
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, id, url))
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id string, url string) (*models.Account, error) {
	query := `
		UPDATE accounts SET cover_image_url = $2
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, id, url))
}

func (r *PostgresRepository) WatchHistoryIDs(ctx context.Context, id string) ([]string, error) {
	query := `
		SELECT video_id FROM watch_history
		WHERE account_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, videoID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}
