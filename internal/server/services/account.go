package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
)

// Uploader stores uploaded media and returns a stable URL for it.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, contentType string) (string, error)
}

// RegisterInput carries the fields of a registration request. AvatarURL and
// CoverImageURL point at already-uploaded media.
type RegisterInput struct {
	FullName      string
	Email         string
	Username      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// AccountService handles registration, credential login, and profile updates.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	uploader    Uploader
	bcryptCost  int
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, uploader Uploader, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		uploader:    uploader,
		bcryptCost:  cfg.BcryptCost,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a new account. Username and email are lowercased before
// storage; a collision on either yields common.ErrorAlreadyExists and no
// partial record. The returned projection never contains secret fields.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.AccountPublic, error) {
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Username) == "" ||
		in.Password == "" ||
		in.AvatarURL == "" {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Username:      normalize(in.Username),
		Email:         normalize(in.Email),
		FullName:      strings.TrimSpace(in.FullName),
		AvatarURL:     in.AvatarURL,
		CoverImageURL: in.CoverImageURL,
		PasswordHash:  hash,
	}

	repo := s.repomanager.Accounts(s.db)
	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return created.Public(), nil
}

// Login verifies the password for the account matching identifier (username
// or email, case-insensitive) and issues a token pair on success.
func (s *AccountService) Login(ctx context.Context, identifier string, password string) (*models.AccountPublic, *TokenPair, error) {
	identifier = normalize(identifier)
	if identifier == "" {
		return nil, nil, common.ErrorValidation
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, account.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.sessions.IssuePair(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	return account.Public(), pair, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
// A wrong old password yields common.ErrorValidation. The read and the write
// run in one transaction so a concurrent change cannot interleave.
func (s *AccountService) ChangePassword(ctx context.Context, accountID string, oldPassword string, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return common.ErrorInternal
		}

		if !auth.CheckPassword(oldPassword, account.PasswordHash) {
			return common.ErrorValidation
		}

		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return common.ErrorInternal
		}

		if err := repo.UpdatePassword(ctx, accountID, hash); err != nil {
			return common.ErrorInternal
		}
		return nil
	})
}

// GetPublic returns the public projection of the account.
func (s *AccountService) GetPublic(ctx context.Context, accountID string) (*models.AccountPublic, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return account.Public(), nil
}

// UpdateDetails updates the account's full name and email. Both are required.
func (s *AccountService) UpdateDetails(ctx context.Context, accountID string, fullName string, email string) (*models.AccountPublic, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalize(email)
	if fullName == "" || email == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.UpdateDetails(ctx, accountID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return account.Public(), nil
}

// UpdateAvatar uploads the new avatar and stores its URL.
func (s *AccountService) UpdateAvatar(ctx context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error) {
	if file == nil {
		return nil, common.ErrorValidation
	}

	url, err := s.uploader.Upload(ctx, file, contentType)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.UpdateAvatar(ctx, accountID, url)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return account.Public(), nil
}

// UpdateCoverImage uploads the new cover image and stores its URL.
func (s *AccountService) UpdateCoverImage(ctx context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error) {
	if file == nil {
		return nil, common.ErrorValidation
	}

	url, err := s.uploader.Upload(ctx, file, contentType)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.UpdateCoverImage(ctx, accountID, url)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return account.Public(), nil
}
