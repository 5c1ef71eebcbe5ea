package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// PendingTokener defines only the methods needed by this handler.
type PendingTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// PendingLister defines the interface that the service must implement.
type PendingLister interface {
	ListPending(ctx context.Context, reviewerID uuid.UUID) ([]models.TransactionDB, error)
}

// NewPendingTransactionsHandler returns an HTTP handler for listing all
// pending transactions across all users.
// @Summary List pending transactions
// @Description Returns all pending transactions, newest-first. Admin-only.
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.Response "Pending transactions"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Router /admin/transactions/pending [get]
// @Security BearerAuth
func NewPendingTransactionsHandler(svc PendingLister, tokenGetter PendingTokener) http.HandlerFunc {
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

		txns, err := svc.ListPending(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, txns)
	}
}
