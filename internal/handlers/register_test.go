package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(mockSvc *MockRegisterer)
		expectedStatusCode int
		expectSuccess      bool
	}{
		{
			name:        "successful registration",
			requestBody: RegisterRequest{Username: "alice", Password: "pass123", Email: "alice@example.com"},
			setupMocks: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "alice", "pass123", "alice@example.com").
					Return(nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectSuccess:      true,
		},
		{
			name:        "user already exists",
			requestBody: RegisterRequest{Username: "bob", Password: "pass123", Email: "bob@example.com"},
			setupMocks: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "bob", "pass123", "bob@example.com").
					Return(services.ErrUserAlreadyExists)
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "password too short",
			requestBody: RegisterRequest{Username: "carol", Password: "123", Email: "carol@example.com"},
			setupMocks: func(mockSvc *MockRegisterer) {
				mockSvc.EXPECT().
					Register(gomock.Any(), "carol", "123", "carol@example.com").
					Return(services.ErrPasswordTooShort)
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "invalid request body",
			requestBody:        "invalid-json",
			setupMocks:         func(mockSvc *MockRegisterer) {},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockRegisterer(ctrl)
			tt.setupMocks(mockSvc)

			handler := NewRegisterHandler(mockSvc)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)

			var resp Response
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.expectSuccess, resp.Success)
		})
	}
}
