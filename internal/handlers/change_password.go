package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
	"github.com/google/uuid"
)

// PasswordTokener defines only the methods needed by this handler.
type PasswordTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// PasswordChanger defines the interface that the service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	CurrentPassword string `json:"current_password"`

	// New password
	// required: true
	NewPassword string `json:"new_password"`
}

// NewChangePasswordHandler returns an HTTP handler for changing the
// caller's password.
// @Summary Change password
// @Description Replaces the caller's password after verifying the current one
// @Tags auth
// @Accept json
// @Produce json
// @Param request body handlers.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} handlers.Response "Password changed"
// @Failure 400 {object} handlers.Response "Invalid request"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Router /password [post]
// @Security BearerAuth
func NewChangePasswordHandler(svc PasswordChanger, tokenGetter PasswordTokener) http.HandlerFunc {
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

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := svc.ChangePassword(ctx, claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "Current password is incorrect")
			case errors.Is(err, services.ErrPasswordTooShort):
				writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			default:
				respondError(w, err)
			}
			return
		}

		writeData(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
	}
}
