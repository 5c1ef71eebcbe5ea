package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// AdminStatsTokener defines only the methods needed by this handler.
type AdminStatsTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SystemStatsReader defines the interface that the service must implement.
type SystemStatsReader interface {
	SystemStats(ctx context.Context, adminID uuid.UUID) (*models.SystemStats, error)
}

// NewAdminStatsHandler returns an HTTP handler for the admin dashboard
// aggregates.
// @Summary System statistics
// @Description Returns ledger-wide totals, pending counts and the zero-filled 30-day daily series. Admin-only.
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.Response "System statistics"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Failure 500 {object} handlers.Response "Internal server error"
// @Router /admin/stats [get]
// @Security BearerAuth
func NewAdminStatsHandler(svc SystemStatsReader, tokenGetter AdminStatsTokener) http.HandlerFunc {
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

		stats, err := svc.SystemStats(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, stats)
	}
}
