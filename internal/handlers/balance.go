package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
)

// BalanceTokener defines only the methods needed by this handler.
type BalanceTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// BalanceReader defines the interface that the service must implement.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// BalanceResult carries the caller's current balance.
// swagger:model BalanceResult
type BalanceResult struct {
	// Current balance
	// default: 100.00
	Balance decimal.Decimal `json:"balance"`
}

// NewGetBalanceHandler returns an HTTP handler for fetching the caller's
// balance.
// @Summary Get balance
// @Description Returns the caller's current ledger balance
// @Tags ledger
// @Produce json
// @Success 200 {object} handlers.Response "Current balance"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 500 {object} handlers.Response "Internal server error"
// @Router /balance [get]
// @Security BearerAuth
func NewGetBalanceHandler(svc BalanceReader, tokenGetter BalanceTokener) http.HandlerFunc {
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

		balance, err := svc.GetBalance(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, BalanceResult{Balance: balance})
	}
}
