package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// TodoTokener defines only the methods needed by the todo handlers.
type TodoTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TodoLister defines the interface that the service must implement.
type TodoLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.TodoDB, error)
}

// TodoAdder defines the interface that the service must implement.
type TodoAdder interface {
	Add(ctx context.Context, userID uuid.UUID, title string) (*models.TodoDB, error)
}

// TodoToggler defines the interface that the service must implement.
type TodoToggler interface {
	Toggle(ctx context.Context, userID, todoID uuid.UUID) (*models.TodoDB, error)
}

// TodoDeleter defines the interface that the service must implement.
type TodoDeleter interface {
	Delete(ctx context.Context, userID, todoID uuid.UUID) error
}

// AddTodoRequest is the payload for creating a todo.
type AddTodoRequest struct {
	Title string `json:"title"`
}

// NewListTodosHandler returns an HTTP handler that lists the caller's
// todos.
// @Summary List todos
// @Description Returns the authenticated user's todos, newest-first
// @Tags todos
// @Produce json
// @Success 200 {object} handlers.Response "Todos"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Router /todos [get]
// @Security BearerAuth
func NewListTodosHandler(svc TodoLister, tokenGetter TodoTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := todoClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		todos, err := svc.List(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, todos)
	}
}

// NewAddTodoHandler returns an HTTP handler that creates a todo.
// @Summary Add todo
// @Description Creates a todo for the authenticated user
// @Tags todos
// @Accept json
// @Produce json
// @Param request body handlers.AddTodoRequest true "Todo title"
// @Success 201 {object} handlers.Response "Created todo"
// @Failure 400 {object} handlers.Response "Empty title"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Router /todos [post]
// @Security BearerAuth
func NewAddTodoHandler(svc TodoAdder, tokenGetter TodoTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := todoClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		var req AddTodoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		todo, err := svc.Add(ctx, claims.UserID, req.Title)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusCreated, todo)
	}
}

// NewToggleTodoHandler returns an HTTP handler that flips a todo's
// completion flag.
// @Summary Toggle todo
// @Description Flips the completion flag of one of the caller's todos
// @Tags todos
// @Produce json
// @Param id path string true "Todo id"
// @Success 200 {object} handlers.Response "Updated todo"
// @Failure 400 {object} handlers.Response "Invalid todo id"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 404 {object} handlers.Response "Todo not found"
// @Router /todos/{id}/toggle [post]
// @Security BearerAuth
func NewToggleTodoHandler(svc TodoToggler, tokenGetter TodoTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := todoClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		todoID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid todo id")
			return
		}

		todo, err := svc.Toggle(ctx, claims.UserID, todoID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, todo)
	}
}

// NewDeleteTodoHandler returns an HTTP handler that removes a todo.
// @Summary Delete todo
// @Description Removes one of the caller's todos
// @Tags todos
// @Produce json
// @Param id path string true "Todo id"
// @Success 200 {object} handlers.Response "Deleted"
// @Failure 400 {object} handlers.Response "Invalid todo id"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 404 {object} handlers.Response "Todo not found"
// @Router /todos/{id} [delete]
// @Security BearerAuth
func NewDeleteTodoHandler(svc TodoDeleter, tokenGetter TodoTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := todoClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		todoID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid todo id")
			return
		}

		if err := svc.Delete(ctx, claims.UserID, todoID); err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, nil)
	}
}

// todoClaims extracts the caller's claims, writing the 401 response
// itself when the token is missing or invalid.
func todoClaims(w http.ResponseWriter, r *http.Request, tokenGetter TodoTokener) (*jwt.Claims, bool) {
	ctx := r.Context()

	tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Errorw("failed to get token from request", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	claims, err := tokenGetter.GetClaims(ctx, tokenStr)
	if err != nil {
		logger.Log.Errorw("failed to get claims from token", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	return claims, true
}
