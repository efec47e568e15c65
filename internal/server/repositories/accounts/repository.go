// Package accounts declares the repository contract for account records,
// including the single-valued refresh-token slot used by session rotation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

// Repository defines persistence operations over account records.
type Repository interface {
	// Create inserts a new account and returns it with the assigned id.
	// A username or email collision yields common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByID returns the account or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByUsername looks up an account by its normalized (lowercase) username.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetByLogin looks up an account by username or email, both normalized.
	GetByLogin(ctx context.Context, identifier string) (*models.Account, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token.
	SetRefreshToken(ctx context.Context, id string, token string) error

	// SwapRefreshToken replaces the stored refresh token with newToken only
	// if the current value still equals oldToken. It reports whether the
	// swap happened. The comparison and the write are a single atomic
	// statement, so two concurrent swaps against the same old value cannot
	// both succeed.
	SwapRefreshToken(ctx context.Context, id string, oldToken string, newToken string) (bool, error)

	// ClearRefreshToken removes the stored refresh token. Idempotent.
	ClearRefreshToken(ctx context.Context, id string) error

	// UpdatePassword stores a new password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// UpdateDetails updates full name and email and returns the updated account.
	UpdateDetails(ctx context.Context, id string, fullName string, email string) (*models.Account, error)

	// UpdateAvatar stores a new avatar URL and returns the updated account.
	UpdateAvatar(ctx context.Context, id string, url string) (*models.Account, error)

	// UpdateCoverImage stores a new cover image URL and returns the updated account.
	UpdateCoverImage(ctx context.Context, id string, url string) (*models.Account, error)

	// WatchHistoryIDs returns the account's watched video ids in original
	// append order, most recent activity implied by position.
	WatchHistoryIDs(ctx context.Context, id string) ([]string, error)
}
