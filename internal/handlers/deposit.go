package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// DepositTokener defines only the methods needed by this handler.
type DepositTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionCreator defines the interface that the service must implement.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, txType string, amount decimal.Decimal) (*models.TransactionDB, error)
}

// AmountRequest represents the JSON body for deposit and withdraw requests
// swagger:model AmountRequest
type AmountRequest struct {
	// Amount to deposit or withdraw
	// required: true
	// default: 100.00
	Amount decimal.Decimal `json:"amount"`
}

// NewDepositHandler returns an HTTP handler for creating a pending deposit
// request.
// @Summary Request a deposit
// @Description Records a pending deposit transaction for admin review. The balance is not touched until approval.
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body handlers.AmountRequest true "Deposit Request"
// @Success 201 {object} handlers.Response "Pending transaction created"
// @Failure 400 {object} handlers.Response "Invalid amount"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Router /ledger/deposit [post]
// @Security BearerAuth
func NewDepositHandler(svc TransactionCreator, tokenGetter DepositTokener) http.HandlerFunc {
	return newCreateTransactionHandler(svc, tokenGetter, models.TypeDeposit)
}

// newCreateTransactionHandler builds the shared deposit/withdraw request
// handler; the transaction type is fixed per route.
func newCreateTransactionHandler(svc TransactionCreator, tokenGetter DepositTokener, txType string) http.HandlerFunc {
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

		var req AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode request", "type", txType, "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		txn, err := svc.CreateTransaction(ctx, claims.UserID, txType, req.Amount)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusCreated, txn)
	}
}
