package handlers

import (
	"net/http"

	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// NewWithdrawHandler returns an HTTP handler for creating a pending
// withdraw request. The balance check here is advisory; the authoritative
// check happens at review time.
// @Summary Request a withdrawal
// @Description Records a pending withdraw transaction for admin review after an advisory balance check.
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body handlers.AmountRequest true "Withdraw Request"
// @Success 201 {object} handlers.Response "Pending transaction created"
// @Failure 400 {object} handlers.Response "Invalid amount"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Failure 422 {object} handlers.Response "Insufficient balance"
// @Router /ledger/withdraw [post]
// @Security BearerAuth
func NewWithdrawHandler(svc TransactionCreator, tokenGetter DepositTokener) http.HandlerFunc {
	return newCreateTransactionHandler(svc, tokenGetter, models.TypeWithdraw)
}
