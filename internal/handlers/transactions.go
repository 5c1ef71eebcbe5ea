package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// TransactionsTokener defines only the methods needed by this handler.
type TransactionsTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserTransactionLister defines the interface that the service must implement.
type UserTransactionLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error)
}

// NewTransactionsHandler returns an HTTP handler that lists the
// authenticated user's own transactions, newest-first.
// @Summary List own transactions
// @Description Returns the authenticated user's transactions, newest-first
// @Tags ledger
// @Produce json
// @Success 200 {object} handlers.Response "Transactions"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 500 {object} handlers.Response "Internal server error"
// @Router /ledger/transactions [get]
// @Security BearerAuth
func NewTransactionsHandler(svc UserTransactionLister, tokenGetter TransactionsTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		txns, err := svc.ListForUser(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, txns)
	}
}
