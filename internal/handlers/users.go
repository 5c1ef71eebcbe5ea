package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// UsersTokener defines only the methods needed by the user management
// handlers.
type UsersTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserLister defines the interface that the service must implement.
type UserLister interface {
	ListUsers(ctx context.Context, adminID uuid.UUID) ([]models.AccountDB, error)
}

// UserCreator defines the interface that the service must implement.
type UserCreator interface {
	CreateUser(ctx context.Context, adminID uuid.UUID, username, email string, generate bool) (*models.AccountDB, string, error)
}

// ProfileUpdater defines the interface that the service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, adminID, userID uuid.UUID, fullName string) (*models.AccountDB, error)
}

// Recharger defines the interface that the service must implement.
type Recharger interface {
	Recharge(ctx context.Context, adminID, userID uuid.UUID, amount decimal.Decimal) (*models.TransactionDB, decimal.Decimal, error)
}

// CreateUserRequest is the payload for creating an account. With Generate
// set, Username and Email are ignored and synthesized instead.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Generate bool   `json:"generate"`
}

// CreateUserResult carries the new account together with its initial
// plaintext password.
type CreateUserResult struct {
	User     *models.AccountDB `json:"user"`
	Password string            `json:"password"`
}

// UpdateProfileRequest is the payload for updating a user's display name.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

// RechargeResult carries the recorded deposit and the resulting balance.
type RechargeResult struct {
	Transaction *models.TransactionDB `json:"transaction"`
	Balance     decimal.Decimal       `json:"balance"`
}

// NewListUsersHandler returns an HTTP handler that lists all accounts.
// @Summary List users
// @Description Returns all accounts, newest-first. Admin-only.
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.Response "Accounts"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Router /admin/users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister, tokenGetter UsersTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := adminClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		accounts, err := svc.ListUsers(ctx, claims.UserID)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, accounts)
	}
}

// NewCreateUserHandler returns an HTTP handler that creates an account
// with the default password.
// @Summary Create user
// @Description Creates an account with the default password. Admin-only.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body handlers.CreateUserRequest true "New user"
// @Success 201 {object} handlers.Response "Created account and initial password"
// @Failure 400 {object} handlers.Response "Invalid request"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Router /admin/users [post]
// @Security BearerAuth
func NewCreateUserHandler(svc UserCreator, tokenGetter UsersTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := adminClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		account, password, err := svc.CreateUser(ctx, claims.UserID, req.Username, req.Email, req.Generate)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusCreated, CreateUserResult{User: account, Password: password})
	}
}

// NewUpdateUserHandler returns an HTTP handler that updates a user's
// display name.
// @Summary Update user profile
// @Description Sets a user's display name. An empty name clears it. Admin-only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body handlers.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} handlers.Response "Updated account"
// @Failure 400 {object} handlers.Response "Invalid request"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Failure 404 {object} handlers.Response "User not found"
// @Router /admin/users/{id} [patch]
// @Security BearerAuth
func NewUpdateUserHandler(svc ProfileUpdater, tokenGetter UsersTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := adminClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		account, err := svc.UpdateProfile(ctx, claims.UserID, userID, req.FullName)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, account)
	}
}

// NewRechargeHandler returns an HTTP handler that credits a user's
// balance directly.
// @Summary Recharge user balance
// @Description Credits a user's balance and records the matching approved deposit. Admin-only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param request body handlers.AmountRequest true "Recharge amount"
// @Success 200 {object} handlers.Response "Recorded deposit and new balance"
// @Failure 400 {object} handlers.Response "Invalid amount"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Failure 404 {object} handlers.Response "User not found"
// @Router /admin/users/{id}/recharge [post]
// @Security BearerAuth
func NewRechargeHandler(svc Recharger, tokenGetter UsersTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := adminClaims(w, r, tokenGetter)
		if !ok {
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		var req AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		txn, balance, err := svc.Recharge(ctx, claims.UserID, userID, req.Amount)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, RechargeResult{Transaction: txn, Balance: balance})
	}
}

// adminClaims extracts the caller's claims, writing the 401 response
// itself when the token is missing or invalid.
func adminClaims(w http.ResponseWriter, r *http.Request, tokenGetter UsersTokener) (*jwt.Claims, bool) {
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
