// Package services contains the server-side business logic: the session and
// token lifecycle, account management, media storage, and the relational
// read views.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/auth"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService owns the refresh-token lifecycle: issuing pairs, rotating
// refresh tokens with reuse detection, and revocation. It is the only
// component that writes the stored refresh token.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// IssuePair mints a fresh access/refresh pair for accountID and stores the
// refresh token, unconditionally replacing whatever was there (login path).
func (s *SessionService) IssuePair(ctx context.Context, accountID string) (*TokenPair, error) {
	pair, err := s.generatePair(accountID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.SetRefreshToken(ctx, accountID, pair.RefreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Rotate validates the presented refresh token and atomically replaces it
// with a fresh one, returning a new pair.
//
// The compare against the stored token and the overwrite are one conditional
// UPDATE, so two concurrent rotations presenting the same token yield
// exactly one success; the loser gets common.ErrTokenReused. A token whose
// signature or expiry fails yields common.ErrInvalidToken /
// common.ErrTokenExpired without touching storage.
func (s *SessionService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	accountID, err := auth.GetAccountIDFromToken(presented, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	pair, err := s.generatePair(accountID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		if _, err := repo.GetByID(ctx, accountID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return common.ErrorInternal
		}

		swapped, err := repo.SwapRefreshToken(ctx, accountID, presented, pair.RefreshToken)
		if err != nil {
			return common.ErrorInternal
		}
		if !swapped {
			return common.ErrTokenReused
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return pair, nil
}

// Revoke clears the stored refresh token (logout). Idempotent.
func (s *SessionService) Revoke(ctx context.Context, accountID string) error {
	repo := s.repomanager.Accounts(s.db)
	if err := repo.ClearRefreshToken(ctx, accountID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// VerifyAccessToken checks an access token and returns its subject account id.
func (s *SessionService) VerifyAccessToken(token string) (string, error) {
	return auth.GetAccountIDFromToken(token, s.accessSecret)
}

func (s *SessionService) generatePair(accountID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(accountID, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateToken(accountID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
