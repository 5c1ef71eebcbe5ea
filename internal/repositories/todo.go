package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

const todoColumns = `todo_id, user_id, title, is_complete, created_at`

// TodoReadRepository handles todo read operations.
type TodoReadRepository struct {
	db *sqlx.DB
}

func NewTodoReadRepository(db *sqlx.DB) *TodoReadRepository {
	return &TodoReadRepository{db: db}
}

// ListByUserID returns all todos of a user, newest-first.
func (r *TodoReadRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var todos []models.TodoDB
	err := r.db.SelectContext(ctx, &todos, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(todos),
		"error", err,
	)

	return todos, err
}

// TodoWriteRepository handles todo write operations. All writes are scoped
// to the owning user.
type TodoWriteRepository struct {
	db *sqlx.DB
}

func NewTodoWriteRepository(db *sqlx.DB) *TodoWriteRepository {
	return &TodoWriteRepository{db: db}
}

// Save inserts a new todo and returns it.
func (r *TodoWriteRepository) Save(ctx context.Context, userID uuid.UUID, title string) (*models.TodoDB, error) {
	query := `
		INSERT INTO todos (todo_id, user_id, title, is_complete, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING ` + todoColumns

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, uuid.New(), userID, title)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, title},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// Toggle flips the completion flag of a todo owned by the user.
func (r *TodoWriteRepository) Toggle(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	query := `
		UPDATE todos
		SET is_complete = NOT is_complete
		WHERE todo_id = $1 AND user_id = $2
		RETURNING ` + todoColumns

	var todo models.TodoDB
	err := r.db.GetContext(ctx, &todo, query, todoID, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTodoNotFound
	}
	if err != nil {
		return nil, err
	}

	return &todo, nil
}

// Delete removes a todo owned by the user.
func (r *TodoWriteRepository) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	const query = `
		DELETE FROM todos
		WHERE todo_id = $1 AND user_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, todoID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrTodoNotFound
	}
	return nil
}
