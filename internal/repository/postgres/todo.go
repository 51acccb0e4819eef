package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/todo-api/internal/domain"
)

// TodoRepository implements domain.TodoRepository on Postgres.
type TodoRepository struct {
	db *sql.DB
}

const todoColumns = `id, text, completed, completed_at, owner_id`

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	id := domain.NewID()

	query :=
		`INSERT INTO todos (id, owner_id, text, completed, completed_at)
		 VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, id, todo.OwnerID, todo.Text, todo.Completed, todo.CompletedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	todo.ID = id
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND owner_id = $2`
	return scanTodo(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID string, update domain.TodoUpdate) (*domain.Todo, error) {
	query :=
		`UPDATE todos SET text = COALESCE($1, text), completed = $2, completed_at = $3
		 WHERE id = $4 AND owner_id = $5
		 RETURNING ` + todoColumns

	var text sql.NullString
	if update.Text != nil {
		text = sql.NullString{String: *update.Text, Valid: true}
	}
	return scanTodo(r.db.QueryRowContext(ctx, query, text, update.Completed, update.CompletedAt, id, ownerID))
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) (*domain.Todo, error) {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2 RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRowContext(ctx, query, id, ownerID))
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
		return nil, fmt.Errorf("db error: %w", err)
	}
	if completedAt.Valid {
		v := completedAt.Int64
		todo.CompletedAt = &v
	}
	return todo, nil
}
