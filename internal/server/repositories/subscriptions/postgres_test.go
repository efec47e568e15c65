package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCountSubscribers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+subscriptions\s+WHERE\s+channel_id\s*=\s*\$1`).
		WithArgs("ch1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := repo.CountSubscribers(context.Background(), "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 subscribers, got %d", n)
	}
}

func TestCountSubscriptions(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+subscriptions\s+WHERE\s+subscriber_id\s*=\s*\$1`).
		WithArgs("sub1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	n, err := repo.CountSubscriptions(context.Background(), "sub1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 subscriptions, got %d", n)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+EXISTS\s*\(`).
		WithArgs("sub1", "ch1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "sub1", "ch1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected membership")
	}
}

func TestCountSubscribers_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)`).
		WillReturnError(errors.New("db down"))

	if _, err := repo.CountSubscribers(context.Background(), "ch1"); err == nil {
		t.Fatalf("expected error")
	}
}
