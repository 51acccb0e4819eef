package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/msomdec/todo-api/internal/domain"
)

func newDBWithMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewWithDB(sqlDB), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewWithDB_Repositories(t *testing.T) {
	db, _ := newDBWithMock(t)

	var _ domain.Database = db
	if db.Users() == nil {
		t.Fatal("Users() nil")
	}
	if db.Todos() == nil {
		t.Fatal("Todos() nil")
	}
}

func TestMigrate(t *testing.T) {
	db, _ := newDBWithMock(t)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, sqlDB *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if gotDir != "." {
		t.Errorf("dir = %q, want .", gotDir)
	}

	gooseUp = func(ctx context.Context, sqlDB *sql.DB, dir string) error {
		return errors.New("boom")
	}
	err := db.Migrate(context.Background())
	if err == nil || !strings.Contains(err.Error(), "run migrations: boom") {
		t.Fatalf("expected wrapped migration error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer sqlDB.Close()
	db := NewWithDB(sqlDB)

	mock.ExpectPing().WillReturnError(errors.New("down"))
	if err := db.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	expectationsMet(t, mock)
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 should be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("23503 should not be a unique violation")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Error("plain error should not be a unique violation")
	}
}
