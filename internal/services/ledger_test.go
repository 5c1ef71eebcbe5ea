package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/avolkov-dev/gw-ledger-review/internal/models"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

func newLedgerService(ctrl *gomock.Controller) (
	*services.LedgerService,
	*services.MockTransactionWriter,
	*services.MockTransactionReader,
	*services.MockAccountGetter,
	*services.MockBalanceCache,
	*services.MockKafkaWriter,
) {
	mockWriter := services.NewMockTransactionWriter(ctrl)
	mockReader := services.NewMockTransactionReader(ctrl)
	mockAccounts := services.NewMockAccountGetter(ctrl)
	mockCache := services.NewMockBalanceCache(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := services.NewLedgerService(mockWriter, mockReader, mockAccounts, mockCache, mockKafka)
	return svc, mockWriter, mockReader, mockAccounts, mockCache, mockKafka
}

func TestLedgerService_CreateTransaction(t *testing.T) {
	userID := uuid.New()
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name       string
		txType     string
		amount     decimal.Decimal
		setupMocks func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter)
		wantErr    error
	}{
		{
			name:   "successful deposit",
			txType: models.TypeDeposit,
			amount: amount,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {
				writer.EXPECT().
					Save(gomock.Any(), userID, models.TypeDeposit, amount).
					Return(&models.TransactionDB{TransactionID: uuid.New(), UserID: userID, Type: models.TypeDeposit, Amount: amount, Status: models.StatusPending}, nil)
			},
		},
		{
			name:   "successful withdraw with sufficient balance",
			txType: models.TypeWithdraw,
			amount: amount,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {
				accounts.EXPECT().
					GetByUserID(gomock.Any(), userID).
					Return(&models.AccountDB{UserID: userID, Balance: decimal.NewFromInt(500)}, nil)
				writer.EXPECT().
					Save(gomock.Any(), userID, models.TypeWithdraw, amount).
					Return(&models.TransactionDB{TransactionID: uuid.New(), UserID: userID, Type: models.TypeWithdraw, Amount: amount, Status: models.StatusPending}, nil)
			},
		},
		{
			name:   "withdraw exceeding balance",
			txType: models.TypeWithdraw,
			amount: amount,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {
				accounts.EXPECT().
					GetByUserID(gomock.Any(), userID).
					Return(&models.AccountDB{UserID: userID, Balance: decimal.NewFromInt(50)}, nil)
			},
			wantErr: models.ErrInsufficientBalance,
		},
		{
			name:       "zero amount",
			txType:     models.TypeDeposit,
			amount:     decimal.Zero,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {},
			wantErr:    services.ErrInvalidAmount,
		},
		{
			name:       "negative amount",
			txType:     models.TypeWithdraw,
			amount:     decimal.NewFromInt(-5),
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {},
			wantErr:    services.ErrInvalidAmount,
		},
		{
			name:       "unknown transaction type",
			txType:     "transfer",
			amount:     amount,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {},
			wantErr:    services.ErrInvalidTransactionType,
		},
		{
			name:   "withdraw for missing account",
			txType: models.TypeWithdraw,
			amount: amount,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter) {
				accounts.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)
			},
			wantErr: models.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockWriter, _, mockAccounts, _, _ := newLedgerService(ctrl)
			tt.setupMocks(mockWriter, mockAccounts)

			txn, err := svc.CreateTransaction(context.Background(), userID, tt.txType, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, txn)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, txn)
				assert.Equal(t, models.StatusPending, txn.Status)
			}
		})
	}
}

func TestLedgerService_Review(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()
	transactionID := uuid.New()
	admin := &models.AccountDB{UserID: adminID, Role: models.RoleAdmin}

	tests := []struct {
		name       string
		decision   string
		setupMocks func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache)
		wantStatus string
		wantErr    error
	}{
		{
			name:     "approve deposit",
			decision: models.DecisionApprove,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
				writer.EXPECT().
					ApplyReview(gomock.Any(), transactionID, models.DecisionApprove).
					Return(&models.TransactionDB{TransactionID: transactionID, UserID: userID, Status: models.StatusApproved}, nil)
				cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
			},
			wantStatus: models.StatusApproved,
		},
		{
			name:     "reject withdraw",
			decision: models.DecisionReject,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
				writer.EXPECT().
					ApplyReview(gomock.Any(), transactionID, models.DecisionReject).
					Return(&models.TransactionDB{TransactionID: transactionID, UserID: userID, Status: models.StatusRejected}, nil)
			},
			wantStatus: models.StatusRejected,
		},
		{
			name:     "non-admin reviewer",
			decision: models.DecisionApprove,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().
					GetByUserID(gomock.Any(), adminID).
					Return(&models.AccountDB{UserID: adminID, Role: models.RoleUser}, nil)
			},
			wantErr: services.ErrForbidden,
		},
		{
			name:     "invalid decision",
			decision: "defer",
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
			},
			wantErr: services.ErrInvalidDecision,
		},
		{
			name:     "transaction not found",
			decision: models.DecisionApprove,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
				writer.EXPECT().
					ApplyReview(gomock.Any(), transactionID, models.DecisionApprove).
					Return(nil, models.ErrTransactionNotFound)
			},
			wantErr: models.ErrTransactionNotFound,
		},
		{
			name:     "transaction already reviewed",
			decision: models.DecisionReject,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
				writer.EXPECT().
					ApplyReview(gomock.Any(), transactionID, models.DecisionReject).
					Return(nil, models.ErrTransactionNotPending)
			},
			wantErr: models.ErrTransactionNotPending,
		},
		{
			name:     "insufficient balance at approval",
			decision: models.DecisionApprove,
			setupMocks: func(writer *services.MockTransactionWriter, accounts *services.MockAccountGetter, cache *services.MockBalanceCache) {
				accounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(admin, nil)
				writer.EXPECT().
					ApplyReview(gomock.Any(), transactionID, models.DecisionApprove).
					Return(nil, models.ErrInsufficientBalance)
			},
			wantErr: models.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockWriter, _, mockAccounts, mockCache, _ := newLedgerService(ctrl)
			tt.setupMocks(mockWriter, mockAccounts, mockCache)

			txn, err := svc.Review(context.Background(), adminID, transactionID, tt.decision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, txn)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, txn.Status)
			}
		})
	}
}

func TestLedgerService_ListPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adminID := uuid.New()
	svc, _, mockReader, mockAccounts, _, _ := newLedgerService(ctrl)

	t.Run("admin gets pending list", func(t *testing.T) {
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), adminID).
			Return(&models.AccountDB{UserID: adminID, Role: models.RoleAdmin}, nil)
		mockReader.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter models.TransactionFilter) ([]models.TransactionDB, error) {
				assert.NotNil(t, filter.Status)
				assert.Equal(t, models.StatusPending, *filter.Status)
				return []models.TransactionDB{{TransactionID: uuid.New(), Status: models.StatusPending}}, nil
			})

		txns, err := svc.ListPending(context.Background(), adminID)
		assert.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), adminID).
			Return(&models.AccountDB{UserID: adminID, Role: models.RoleUser}, nil)

		txns, err := svc.ListPending(context.Background(), adminID)
		assert.ErrorIs(t, err, services.ErrForbidden)
		assert.Nil(t, txns)
	})
}

func TestLedgerService_ListForUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	svc, _, mockReader, _, _, _ := newLedgerService(ctrl)

	mockReader.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter models.TransactionFilter) ([]models.TransactionDB, error) {
			assert.NotNil(t, filter.UserID)
			assert.Equal(t, userID, *filter.UserID)
			return []models.TransactionDB{{UserID: userID}}, nil
		})

	txns, err := svc.ListForUser(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestLedgerService_GetBalance(t *testing.T) {
	userID := uuid.New()
	balance := decimal.NewFromInt(250)

	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, _, mockCache, _ := newLedgerService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), userID).Return(balance, true, nil)

		got, err := svc.GetBalance(context.Background(), userID)
		assert.NoError(t, err)
		assert.True(t, balance.Equal(got))
	})

	t.Run("cache miss reads store and fills cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, mockAccounts, mockCache, _ := newLedgerService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), userID).Return(decimal.Zero, false, nil)
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), userID).
			Return(&models.AccountDB{UserID: userID, Balance: balance}, nil)
		mockCache.EXPECT().Set(gomock.Any(), userID, balance).Return(nil)

		got, err := svc.GetBalance(context.Background(), userID)
		assert.NoError(t, err)
		assert.True(t, balance.Equal(got))
	})

	t.Run("cache error falls back to store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, mockAccounts, mockCache, _ := newLedgerService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), userID).Return(decimal.Zero, false, errors.New("redis down"))
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), userID).
			Return(&models.AccountDB{UserID: userID, Balance: balance}, nil)
		mockCache.EXPECT().Set(gomock.Any(), userID, balance).Return(nil)

		got, err := svc.GetBalance(context.Background(), userID)
		assert.NoError(t, err)
		assert.True(t, balance.Equal(got))
	})

	t.Run("account not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _, mockAccounts, mockCache, _ := newLedgerService(ctrl)
		mockCache.EXPECT().Get(gomock.Any(), userID).Return(decimal.Zero, false, nil)
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)

		_, err := svc.GetBalance(context.Background(), userID)
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestLedgerService_UserDailyStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	svc, _, mockReader, _, _, _ := newLedgerService(ctrl)

	mockReader.EXPECT().
		DailyVolumes(gomock.Any(), &userID, gomock.Any()).
		Return([]models.DailyVolume{}, nil)

	stats, err := svc.UserDailyStats(context.Background(), userID)
	assert.NoError(t, err)
	assert.Len(t, stats, 30)
	for _, day := range stats {
		assert.True(t, day.Deposit.IsZero())
		assert.True(t, day.Withdraw.IsZero())
	}
}
