package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// AdminTransactionsTokener defines only the methods needed by this handler.
type AdminTransactionsTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// FilteredLister defines the interface that the service must implement.
type FilteredLister interface {
	ListAll(ctx context.Context, reviewerID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error)
}

// dateLayout is the expected format of start_date and end_date query
// parameters.
const dateLayout = "2006-01-02"

var errInvalidFilter = errors.New("invalid transaction filter")

// NewAdminTransactionsHandler returns an HTTP handler for the filtered
// transaction listing.
// @Summary List transactions
// @Description Returns transactions matching the query filters, newest-first. end_date is inclusive to the end of the day. Admin-only.
// @Tags admin
// @Produce json
// @Param type query string false "Transaction type (deposit or withdraw)"
// @Param status query string false "Transaction status (pending, approved or rejected)"
// @Param user_id query string false "Owning user id"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} handlers.Response "Transactions"
// @Failure 400 {object} handlers.Response "Invalid filter"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 403 {object} handlers.Response "Admin privileges required"
// @Router /admin/transactions [get]
// @Security BearerAuth
func NewAdminTransactionsHandler(svc FilteredLister, tokenGetter AdminTransactionsTokener) http.HandlerFunc {
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

		filter, err := parseTransactionFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid filter")
			return
		}

		txns, err := svc.ListAll(ctx, claims.UserID, filter)
		if err != nil {
			respondError(w, err)
			return
		}

		writeData(w, http.StatusOK, txns)
	}
}

// parseTransactionFilter reads the listing filter from query parameters.
// Absent parameters leave the corresponding filter field nil.
func parseTransactionFilter(r *http.Request) (models.TransactionFilter, error) {
	var filter models.TransactionFilter
	q := r.URL.Query()

	if v := q.Get("type"); v != "" && v != "all" {
		if v != models.TypeDeposit && v != models.TypeWithdraw {
			return filter, errInvalidFilter
		}
		filter.Type = &v
	}
	if v := q.Get("status"); v != "" && v != "all" {
		if v != models.StatusPending && v != models.StatusApproved && v != models.StatusRejected {
			return filter, errInvalidFilter
		}
		filter.Status = &v
	}
	if v := q.Get("user_id"); v != "" && v != "all" {
		userID, err := uuid.Parse(v)
		if err != nil {
			return filter, err
		}
		filter.UserID = &userID
	}
	if v := q.Get("start_date"); v != "" {
		start, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if v := q.Get("end_date"); v != "" {
		end, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, err
		}
		// end_date is inclusive up to the end of the named day
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	return filter, nil
}
