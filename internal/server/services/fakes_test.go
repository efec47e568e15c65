package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/dbx"
	accountsrepo "github.com/dmitrijs2005/videotube/internal/server/repositories/accounts"
	subscriptionsrepo "github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
	videosrepo "github.com/dmitrijs2005/videotube/internal/server/repositories/videos"
	"github.com/dmitrijs2005/videotube/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// fakeAccountsRepo keeps accounts in a map guarded by a mutex; the refresh
// token swap is compare-and-set under the lock, mirroring the atomicity of
// the conditional UPDATE in the Postgres implementation.
type fakeAccountsRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Account
	nextID  int
	history map[string][]string
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{
		byID:    make(map[string]*models.Account),
		history: make(map[string][]string),
	}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == account.Username || a.Email == account.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	account.ID = fmt.Sprintf("a%d", f.nextID)
	copied := *account
	f.byID[account.ID] = &copied
	return account, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountsRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByLogin(ctx context.Context, identifier string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == identifier || a.Email == identifier {
			copied := *a
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) SetRefreshToken(ctx context.Context, id string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		a.CurrentRefreshToken = token
	}
	return nil
}

func (f *fakeAccountsRepo) SwapRefreshToken(ctx context.Context, id string, oldToken string, newToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.CurrentRefreshToken == "" || a.CurrentRefreshToken != oldToken {
		return false, nil
	}
	a.CurrentRefreshToken = newToken
	return true, nil
}

func (f *fakeAccountsRepo) ClearRefreshToken(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		a.CurrentRefreshToken = ""
	}
	return nil
}

func (f *fakeAccountsRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		a.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeAccountsRepo) UpdateDetails(ctx context.Context, id string, fullName string, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.FullName = fullName
	a.Email = email
	copied := *a
	return &copied, nil
}

func (f *fakeAccountsRepo) UpdateAvatar(ctx context.Context, id string, url string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.AvatarURL = url
	copied := *a
	return &copied, nil
}

func (f *fakeAccountsRepo) UpdateCoverImage(ctx context.Context, id string, url string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.CoverImageURL = url
	copied := *a
	return &copied, nil
}

func (f *fakeAccountsRepo) WatchHistoryIDs(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[id], nil
}

// fakeSubscriptionsRepo serves counts and membership from a fixed edge list.
type fakeSubscriptionsRepo struct {
	edges []models.Subscription
}

func (f *fakeSubscriptionsRepo) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionsRepo) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	var n int64
	for _, e := range f.edges {
		if e.SubscriberID == subscriberID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionsRepo) Exists(ctx context.Context, subscriberID string, channelID string) (bool, error) {
	for _, e := range f.edges {
		if e.SubscriberID == subscriberID && e.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

// fakeVideosRepo returns its items in whatever order they were configured,
// deliberately ignoring the requested id order.
type fakeVideosRepo struct {
	items []*models.WatchHistoryItem
}

func (f *fakeVideosRepo) FindWithOwners(ctx context.Context, ids []string) ([]*models.WatchHistoryItem, error) {
	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	out := make([]*models.WatchHistoryItem, 0, len(ids))
	for _, item := range f.items {
		if _, ok := requested[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	accounts      *fakeAccountsRepo
	subscriptions *fakeSubscriptionsRepo
	videos        *fakeVideosRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }

func (m *fakeRepoManager) Subscriptions(db dbx.DBTX) subscriptionsrepo.Repository {
	return m.subscriptions
}

func (m *fakeRepoManager) Videos(db dbx.DBTX) videosrepo.Repository { return m.videos }

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
