package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoRepository implements domain.TodoRepository using SQLite. Every
// query except insert filters on (id, owner_id).
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new SQLite-backed TodoRepository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db.SqlDB}
}

const todoColumns = `id, text, completed, completed_at, owner_id`

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	id := domain.NewID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, owner_id, text, completed, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, todo.OwnerID, todo.Text, todo.Completed, todo.CompletedAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	todo.ID = id
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanTodo(row)
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID string, update domain.TodoUpdate) (*domain.Todo, error) {
	var text any
	if update.Text != nil {
		text = *update.Text
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE todos SET text = COALESCE(?, text), completed = ?, completed_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING `+todoColumns,
		text, update.Completed, update.CompletedAt, id, ownerID,
	)
	return scanTodo(row)
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM todos WHERE id = ? AND owner_id = ? RETURNING `+todoColumns, id, ownerID)
	return scanTodo(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	todo := &domain.Todo{}
	var completedAt sql.NullInt64
	if err := row.Scan(&todo.ID, &todo.Text, &todo.Completed, &completedAt, &todo.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	if completedAt.Valid {
		v := completedAt.Int64
		todo.CompletedAt = &v
	}
	return todo, nil
}
