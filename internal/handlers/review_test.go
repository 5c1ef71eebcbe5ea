package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/avolkov-dev/gw-ledger-review/internal/jwt"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

func TestReviewHandler(t *testing.T) {
	adminID := uuid.New()
	transactionID := uuid.New()
	validToken := "valid-token"

	tests := []struct {
		name               string
		transactionID      string
		requestBody        any
		setupMocks         func(mockSvc *MockReviewer, mockTokener *MockReviewTokener)
		expectedStatusCode int
		expectSuccess      bool
	}{
		{
			name:          "approve succeeds",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionApprove).
					Return(&models.TransactionDB{TransactionID: transactionID, Status: models.StatusApproved}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectSuccess:      true,
		},
		{
			name:          "reject succeeds",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionReject},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionReject).
					Return(&models.TransactionDB{TransactionID: transactionID, Status: models.StatusRejected}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectSuccess:      true,
		},
		{
			name:          "unauthorized missing token",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", http.ErrNoCookie)
			},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:          "forbidden for non-admin",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleUser}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionApprove).
					Return(nil, services.ErrForbidden)
			},
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:          "invalid transaction id",
			transactionID: "not-a-uuid",
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:          "invalid decision",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: "defer"},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, "defer").
					Return(nil, services.ErrInvalidDecision)
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:          "transaction not found",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionApprove).
					Return(nil, models.ErrTransactionNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:          "already reviewed",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionApprove).
					Return(nil, models.ErrTransactionNotPending)
			},
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:          "insufficient balance on approval",
			transactionID: transactionID.String(),
			requestBody:   ReviewRequest{Decision: models.DecisionApprove},
			setupMocks: func(mockSvc *MockReviewer, mockTokener *MockReviewTokener) {
				mockTokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return(validToken, nil)
				mockTokener.EXPECT().GetClaims(gomock.Any(), validToken).Return(&jwt.Claims{UserID: adminID, Role: models.RoleAdmin}, nil)
				mockSvc.EXPECT().
					Review(gomock.Any(), adminID, transactionID, models.DecisionApprove).
					Return(nil, models.ErrInsufficientBalance)
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockReviewer(ctrl)
			mockTokener := NewMockReviewTokener(ctrl)
			tt.setupMocks(mockSvc, mockTokener)

			r := chi.NewRouter()
			r.Post("/admin/transactions/{id}/review", NewReviewHandler(mockSvc, mockTokener))

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/admin/transactions/"+tt.transactionID+"/review", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)

			var resp Response
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.expectSuccess, resp.Success)
			if !tt.expectSuccess {
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}
