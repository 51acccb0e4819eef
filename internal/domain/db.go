package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (MongoDB, SQLite, Postgres) owns its own schema or
// index setup, ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Users() UserRepository
	Todos() TodoRepository
}
