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

// ReviewTokener defines only the methods needed by this handler.
type ReviewTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// Reviewer defines the interface that the service must implement.
type Reviewer interface {
	Review(ctx context.Context, reviewerID, transactionID uuid.UUID, decision string) (*models.TransactionDB, error)
}

// ReviewRequest represents the JSON body for a review decision
// swagger:model ReviewRequest
type ReviewRequest struct {
	// Review decision: approve or reject
	// required: true
	// default: approve
	Decision string `json:"decision"`
}

// NewReviewHandler returns an HTTP handler for reviewing a pending
// transaction.
// @Summary Review a transaction
// @Description Applies an approve or reject decision to a pending transaction. Approval atomically mutates the owner's balance. Admin-only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body handlers.ReviewRequest true "Review Request"
// @Success 200 {object} handlers.Response "Updated transaction"
// @Failure 400 {object} handlers.Response "Invalid request"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Failure 404 {object} handlers.Response "Transaction not found"
// @Failure 409 {object} handlers.Response "Transaction already reviewed"
// @Failure 422 {object} handlers.Response "Insufficient balance"
// @Router /admin/transactions/{id}/review [post]
// @Security BearerAuth
func NewReviewHandler(svc Reviewer, tokenGetter ReviewTokener) http.HandlerFunc {
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

		transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid transaction id")
			return
		}

		var req ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		txn, err := svc.Review(ctx, claims.UserID, transactionID, req.Decision)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, txn)
	}
}
