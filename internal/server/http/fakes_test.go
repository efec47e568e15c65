package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/logging"
	"github.com/dmitrijs2005/videotube/internal/server/config"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

type fakeAccounts struct {
	registerIn  services.RegisterInput
	registerOut *models.AccountPublic
	registerErr error

	loginIdentifier string
	loginOut        *models.AccountPublic
	loginPair       *services.TokenPair
	loginErr        error

	changePasswordErr error
	changedAccountID  string

	byID map[string]*models.AccountPublic

	updateDetailsOut *models.AccountPublic
	updateDetailsErr error

	updateImageOut         *models.AccountPublic
	updateImageErr         error
	updateImageContentType string
}

func (f *fakeAccounts) Register(_ context.Context, in services.RegisterInput) (*models.AccountPublic, error) {
	f.registerIn = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeAccounts) Login(_ context.Context, identifier string, password string) (*models.AccountPublic, *services.TokenPair, error) {
	f.loginIdentifier = identifier
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.loginOut, f.loginPair, nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, accountID string, oldPassword string, newPassword string) error {
	f.changedAccountID = accountID
	return f.changePasswordErr
}

func (f *fakeAccounts) GetPublic(_ context.Context, accountID string) (*models.AccountPublic, error) {
	account, ok := f.byID[accountID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return account, nil
}

func (f *fakeAccounts) UpdateDetails(_ context.Context, accountID string, fullName string, email string) (*models.AccountPublic, error) {
	if f.updateDetailsErr != nil {
		return nil, f.updateDetailsErr
	}
	return f.updateDetailsOut, nil
}

func (f *fakeAccounts) UpdateAvatar(_ context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error) {
	f.updateImageContentType = contentType
	if f.updateImageErr != nil {
		return nil, f.updateImageErr
	}
	return f.updateImageOut, nil
}

func (f *fakeAccounts) UpdateCoverImage(_ context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error) {
	f.updateImageContentType = contentType
	if f.updateImageErr != nil {
		return nil, f.updateImageErr
	}
	return f.updateImageOut, nil
}

type fakeSessions struct {
	// accessTokens maps valid access tokens to account ids.
	accessTokens map[string]string

	rotatePresented string
	rotateOut       *services.TokenPair
	rotateErr       error

	revokedAccountID string
	revokeErr        error
}

func (f *fakeSessions) Rotate(_ context.Context, presented string) (*services.TokenPair, error) {
	f.rotatePresented = presented
	if f.rotateErr != nil {
		return nil, f.rotateErr
	}
	return f.rotateOut, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accountID string) error {
	f.revokedAccountID = accountID
	return f.revokeErr
}

func (f *fakeSessions) VerifyAccessToken(token string) (string, error) {
	accountID, ok := f.accessTokens[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	return accountID, nil
}

type fakeViews struct {
	profileUsername    string
	profileRequesterID string
	profileOut         *models.ChannelProfile
	profileErr         error

	historyAccountID string
	historyOut       []*models.WatchHistoryItem
	historyErr       error
}

func (f *fakeViews) ChannelProfile(_ context.Context, username string, requesterID string) (*models.ChannelProfile, error) {
	f.profileUsername = username
	f.profileRequesterID = requesterID
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileOut, nil
}

func (f *fakeViews) WatchHistory(_ context.Context, accountID string) ([]*models.WatchHistoryItem, error) {
	f.historyAccountID = accountID
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.historyOut, nil
}

type fakeUploader struct {
	url         string
	err         error
	uploads     int
	contentType string
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	f.contentType = contentType
	_, _ = io.Copy(io.Discard, r)
	return f.url, nil
}

func newTestServer(accounts *fakeAccounts, sessions *fakeSessions, views *fakeViews, media *fakeUploader) *Server {
	cfg := &config.Config{
		EndpointAddrHTTP:             ":0",
		RequestTimeout:               time.Second,
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 240 * time.Hour,
	}
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(cfg, l, accounts, sessions, views, media)
}
