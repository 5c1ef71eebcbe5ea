package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// ErrEmptyTitle is returned when a todo is created without a title.
var ErrEmptyTitle = errors.New("title must not be empty")

// TodoReader defines read operations for todos.
type TodoReader interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error)
}

// TodoWriter defines write operations for todos.
type TodoWriter interface {
	Save(ctx context.Context, userID uuid.UUID, title string) (*models.TodoDB, error)
	Toggle(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
	Delete(ctx context.Context, userID, todoID uuid.UUID) error
}

// TodoService handles the todo list. It shares the authentication layer
// with the ledger but is otherwise independent of it.
type TodoService struct {
	reader TodoReader
	writer TodoWriter
}

// NewTodoService creates a new TodoService.
func NewTodoService(reader TodoReader, writer TodoWriter) *TodoService {
	return &TodoService{reader: reader, writer: writer}
}

// List returns the caller's todos, newest-first.
func (s *TodoService) List(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error) {
	return s.reader.ListByUserID(ctx, userID)
}

// Add creates a new todo for the caller.
func (s *TodoService) Add(ctx context.Context, userID uuid.UUID, title string) (*models.TodoDB, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	todo, err := s.writer.Save(ctx, userID, title)
	if err != nil {
		logger.Log.Errorw("failed to save todo", "userID", userID, "err", err)
		return nil, err
	}

	return todo, nil
}

// Toggle flips the completion flag of one of the caller's todos.
func (s *TodoService) Toggle(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error) {
	return s.writer.Toggle(ctx, userID, todoID)
}

// Delete removes one of the caller's todos.
func (s *TodoService) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	return s.writer.Delete(ctx, userID, todoID)
}
