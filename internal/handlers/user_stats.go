package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// UserStatsTokener defines only the methods needed by this handler.
type UserStatsTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserStatsReader defines the interface that the service must implement.
type UserStatsReader interface {
	UserDailyStats(ctx context.Context, userID uuid.UUID) ([]models.DailyVolume, error)
}

// NewUserStatsHandler returns an HTTP handler for the user's daily
// approved-volume statistics over the last 30 days.
// @Summary Daily transaction statistics
// @Description Returns the authenticated user's approved deposit and withdrawal volume per day over the last 30 days. Days without activity are zero-filled.
// @Tags ledger
// @Produce json
// @Success 200 {object} handlers.Response "Daily volumes"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 500 {object} handlers.Response "Internal server error"
// @Router /ledger/stats [get]
// @Security BearerAuth
func NewUserStatsHandler(svc UserStatsReader, tokenGetter UserStatsTokener) http.HandlerFunc {
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

		stats, err := svc.UserDailyStats(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, stats)
	}
}
