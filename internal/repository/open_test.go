package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")

	db, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	assert.NoError(t, db.Ping(context.Background()))

	u := &domain.User{Email: "a@test.com", PasswordHash: "hash"}
	require.NoError(t, db.Users().Create(context.Background(), u))
	assert.True(t, domain.ValidID(u.ID))
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "no scheme", url: "todo.db", want: "has no scheme"},
		{name: "unsupported scheme", url: "redis://localhost:6379", want: `unsupported database scheme "redis"`},
		{name: "empty sqlite path", url: "sqlite://", want: "has no path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(context.Background(), tt.url)
			assert.Nil(t, db)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
