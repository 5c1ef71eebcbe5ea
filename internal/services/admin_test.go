package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov-dev/gw-ledger-review/internal/models"
	"github.com/avolkov-dev/gw-ledger-review/internal/services"
)

func newAdminService(ctrl *gomock.Controller) (
	*services.AdminService,
	*services.MockAccountLister,
	*services.MockAccountManager,
	*services.MockRechargeWriter,
	*services.MockStatsReader,
	*services.MockTransactionReader,
	*services.MockBalanceCache,
) {
	mockAccounts := services.NewMockAccountLister(ctrl)
	mockManager := services.NewMockAccountManager(ctrl)
	mockRecharge := services.NewMockRechargeWriter(ctrl)
	mockStats := services.NewMockStatsReader(ctrl)
	mockTxReader := services.NewMockTransactionReader(ctrl)
	mockCache := services.NewMockBalanceCache(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := services.NewAdminService(mockAccounts, mockManager, mockRecharge, mockStats, mockTxReader, mockCache, mockKafka)
	return svc, mockAccounts, mockManager, mockRecharge, mockStats, mockTxReader, mockCache
}

func adminAccount(adminID uuid.UUID) *models.AccountDB {
	return &models.AccountDB{UserID: adminID, Role: models.RoleAdmin}
}

func TestAdminService_ListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adminID := uuid.New()
	svc, mockAccounts, _, _, _, _, _ := newAdminService(ctrl)

	t.Run("admin lists users", func(t *testing.T) {
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockAccounts.EXPECT().List(gomock.Any()).Return([]models.AccountDB{{UserID: uuid.New()}}, nil)

		accounts, err := svc.ListUsers(context.Background(), adminID)
		assert.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("regular user is rejected", func(t *testing.T) {
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), adminID).
			Return(&models.AccountDB{UserID: adminID, Role: models.RoleUser}, nil)

		accounts, err := svc.ListUsers(context.Background(), adminID)
		assert.ErrorIs(t, err, services.ErrForbidden)
		assert.Nil(t, accounts)
	})
}

func TestAdminService_CreateUser(t *testing.T) {
	adminID := uuid.New()

	t.Run("explicit username and email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, mockManager, _, _, _, _ := newAdminService(ctrl)

		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockAccounts.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockManager.EXPECT().
			Save(gomock.Any(), "newuser", "new@example.com", gomock.Any(), models.RoleUser).
			DoAndReturn(func(_ context.Context, username, email, passwordHash, role string) (*models.AccountDB, error) {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("000000")))
				return &models.AccountDB{UserID: uuid.New(), Username: username, Email: email, Role: role}, nil
			})

		account, password, err := svc.CreateUser(context.Background(), adminID, "newuser", "new@example.com", false)
		assert.NoError(t, err)
		assert.Equal(t, "000000", password)
		assert.Equal(t, "newuser", account.Username)
	})

	t.Run("generated credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, mockManager, _, _, _, _ := newAdminService(ctrl)

		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockAccounts.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		mockManager.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), models.RoleUser).
			DoAndReturn(func(_ context.Context, username, email, passwordHash, role string) (*models.AccountDB, error) {
				assert.Regexp(t, `^user_\d{6}$`, username)
				assert.Equal(t, username+"@example.com", email)
				return &models.AccountDB{UserID: uuid.New(), Username: username, Email: email, Role: role}, nil
			})

		_, password, err := svc.CreateUser(context.Background(), adminID, "", "", true)
		assert.NoError(t, err)
		assert.Equal(t, "000000", password)
	})

	t.Run("invalid email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, _, _, _, _, _ := newAdminService(ctrl)
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)

		_, _, err := svc.CreateUser(context.Background(), adminID, "newuser", "not-an-email", false)
		assert.ErrorIs(t, err, services.ErrInvalidEmail)
	})

	t.Run("duplicate account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, _, _, _, _, _ := newAdminService(ctrl)
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockAccounts.EXPECT().
			GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.AccountDB{UserID: uuid.New()}, nil)

		_, _, err := svc.CreateUser(context.Background(), adminID, "newuser", "new@example.com", false)
		assert.ErrorIs(t, err, services.ErrUserAlreadyExists)
	})
}

func TestAdminService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adminID := uuid.New()
	userID := uuid.New()
	svc, mockAccounts, mockManager, _, _, _, _ := newAdminService(ctrl)

	t.Run("set full name", func(t *testing.T) {
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockManager.EXPECT().
			UpdateFullName(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID, fullName *string) (*models.AccountDB, error) {
				assert.NotNil(t, fullName)
				assert.Equal(t, "Alice Smith", *fullName)
				return &models.AccountDB{UserID: id, FullName: fullName}, nil
			})

		account, err := svc.UpdateProfile(context.Background(), adminID, userID, "  Alice Smith  ")
		assert.NoError(t, err)
		assert.Equal(t, "Alice Smith", *account.FullName)
	})

	t.Run("empty name clears it", func(t *testing.T) {
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockManager.EXPECT().
			UpdateFullName(gomock.Any(), userID, nil).
			Return(&models.AccountDB{UserID: userID}, nil)

		account, err := svc.UpdateProfile(context.Background(), adminID, userID, "   ")
		assert.NoError(t, err)
		assert.Nil(t, account.FullName)
	})

	t.Run("user not found", func(t *testing.T) {
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockManager.EXPECT().
			UpdateFullName(gomock.Any(), userID, gomock.Any()).
			Return(nil, nil)

		_, err := svc.UpdateProfile(context.Background(), adminID, userID, "Bob")
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}

func TestAdminService_Recharge(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()
	amount := decimal.NewFromInt(500)

	t.Run("successful recharge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, _, mockRecharge, _, _, mockCache := newAdminService(ctrl)

		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
		mockRecharge.EXPECT().
			SaveRecharge(gomock.Any(), userID, amount).
			Return(&models.TransactionDB{TransactionID: uuid.New(), UserID: userID, Type: models.TypeDeposit, Amount: amount, Status: models.StatusApproved}, decimal.NewFromInt(700), nil)
		mockCache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)

		txn, balance, err := svc.Recharge(context.Background(), adminID, userID, amount)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusApproved, txn.Status)
		assert.True(t, decimal.NewFromInt(700).Equal(balance))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, _, _, _, _, _ := newAdminService(ctrl)
		mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)

		_, _, err := svc.Recharge(context.Background(), adminID, userID, decimal.Zero)
		assert.ErrorIs(t, err, services.ErrInvalidAmount)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockAccounts, _, _, _, _, _ := newAdminService(ctrl)
		mockAccounts.EXPECT().
			GetByUserID(gomock.Any(), adminID).
			Return(&models.AccountDB{UserID: adminID, Role: models.RoleUser}, nil)

		_, _, err := svc.Recharge(context.Background(), adminID, userID, amount)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})
}

func TestAdminService_SystemStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adminID := uuid.New()
	svc, mockAccounts, _, _, mockStats, mockTxReader, _ := newAdminService(ctrl)

	mockAccounts.EXPECT().GetByUserID(gomock.Any(), adminID).Return(adminAccount(adminID), nil)
	mockStats.EXPECT().
		Totals(gomock.Any()).
		Return(&models.SystemStats{TotalUsers: 3, PendingTransactions: 2}, nil)
	mockTxReader.EXPECT().
		DailyVolumes(gomock.Any(), nil, gomock.Any()).
		Return([]models.DailyVolume{}, nil)

	stats, err := svc.SystemStats(context.Background(), adminID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Len(t, stats.DailyStats, 30)
}
