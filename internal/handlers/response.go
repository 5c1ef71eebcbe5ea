package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

// Response is the uniform result envelope returned by every endpoint.
// swagger:model Response
type Response struct {
	// Whether the operation succeeded
	Success bool `json:"success"`

	// Operation result, present on success
	Data any `json:"data,omitempty"`

	// Human-readable error message, present on failure
	Error string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// respondError maps a service failure onto an HTTP status and a
// human-readable message. Store failures are logged with full detail and
// surfaced as a generic message.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "Admin privileges required")
	case errors.Is(err, services.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, services.ErrInvalidDecision):
		writeError(w, http.StatusBadRequest, "Decision must be approve or reject")
	case errors.Is(err, services.ErrInvalidTransactionType):
		writeError(w, http.StatusBadRequest, "Invalid transaction type")
	case errors.Is(err, services.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, services.ErrEmptyTitle):
		writeError(w, http.StatusBadRequest, "Title must not be empty")
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeError(w, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, models.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, "Insufficient balance")
	case errors.Is(err, models.ErrTransactionNotPending):
		writeError(w, http.StatusConflict, "Transaction has already been reviewed")
	case errors.Is(err, models.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, models.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, models.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
