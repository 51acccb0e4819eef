// Package repository selects a storage backend from a database URL.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/repository/mongodb"
	"github.com/msomdec/todo-api/internal/repository/postgres"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
)

// Open connects to the backend named by rawURL's scheme:
//
//	mongodb://, mongodb+srv://  MongoDB
//	postgres://, postgresql://  PostgreSQL
//	sqlite://<path>             SQLite file at <path>
func Open(ctx context.Context, rawURL string) (domain.Database, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, fmt.Errorf("database url %q has no scheme", rawURL)
	}

	var (
		db  domain.Database
		err error
	)
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		db, err = mongodb.Open(ctx, rawURL)
	case "postgres", "postgresql":
		db, err = postgres.Open(ctx, rawURL)
	case "sqlite":
		if rest == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", rawURL)
		}
		db, err = sqlite.New(rest)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}
