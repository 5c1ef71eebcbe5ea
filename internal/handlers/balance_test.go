package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

func TestGetBalanceHandler(t *testing.T) {
	userID := uuid.New()
	validToken := "valid-token"

	t.Run("returns current balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTokener := NewMockBalanceTokener(ctrl)
		mockSvc := NewMockBalanceReader(ctrl)

		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
		mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: userID}, nil)
		mockSvc.EXPECT().GetBalance(gomock.Any(), userID).Return(decimal.NewFromInt(250), nil)

		handler := NewGetBalanceHandler(mockSvc, mockTokener)

		req := httptest.NewRequest(http.MethodGet, "/balance", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Balance decimal.Decimal `json:"balance"`
			} `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.True(t, decimal.NewFromInt(250).Equal(resp.Data.Balance))
	})

	t.Run("unauthorized without token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTokener := NewMockBalanceTokener(ctrl)
		mockSvc := NewMockBalanceReader(ctrl)

		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", http.ErrNoCookie)

		handler := NewGetBalanceHandler(mockSvc, mockTokener)

		req := httptest.NewRequest(http.MethodGet, "/balance", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("account not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTokener := NewMockBalanceTokener(ctrl)
		mockSvc := NewMockBalanceReader(ctrl)

		mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
		mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: userID}, nil)
		mockSvc.EXPECT().GetBalance(gomock.Any(), userID).Return(decimal.Zero, models.ErrAccountNotFound)

		handler := NewGetBalanceHandler(mockSvc, mockTokener)

		req := httptest.NewRequest(http.MethodGet, "/balance", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
