package domain

import "context"

// Todo is a task owned by exactly one user.
type Todo struct {
	ID        string
	Text      string
	Completed bool
	// CompletedAt is a Unix timestamp in milliseconds, nil while incomplete.
	CompletedAt *int64
	OwnerID     string
}

// TodoUpdate is the full set of fields written by an update. Completed and
// CompletedAt are always written together; Text is written only when set.
type TodoUpdate struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}

// TodoRepository defines persistence operations for todos. Every method
// other than Create is scoped by owner: a todo owned by someone else is
// reported as ErrNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id, ownerID string) (*Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Todo, error)
	Update(ctx context.Context, id, ownerID string, update TodoUpdate) (*Todo, error)
	Delete(ctx context.Context, id, ownerID string) (*Todo, error)
}
