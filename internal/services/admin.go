package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// ErrInvalidEmail is returned when a provided email does not look like one.
var ErrInvalidEmail = errors.New("invalid email address")

// defaultPassword is assigned to admin-created accounts; users are
// expected to change it on first login.
const defaultPassword = "000000"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountLister lists all accounts.
type AccountLister interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AccountDB, error)
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.AccountDB, error)
	List(ctx context.Context) ([]models.AccountDB, error)
}

// AccountManager defines the account writes used by user management.
type AccountManager interface {
	Save(ctx context.Context, username, email, passwordHash, role string) (*models.AccountDB, error)
	UpdateFullName(ctx context.Context, userID uuid.UUID, fullName *string) (*models.AccountDB, error)
}

// RechargeWriter credits an account and records the matching approved
// deposit in one atomic unit.
type RechargeWriter interface {
	SaveRecharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.TransactionDB, decimal.Decimal, error)
}

// StatsReader aggregates system-wide counters.
type StatsReader interface {
	Totals(ctx context.Context) (*models.SystemStats, error)
}

// AdminService handles user management and the admin dashboard.
type AdminService struct {
	accounts    AccountLister
	manager     AccountManager
	recharge    RechargeWriter
	stats       StatsReader
	txReader    TransactionReader
	cache       BalanceCache
	kafkaWriter KafkaWriter
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	accounts AccountLister,
	manager AccountManager,
	recharge RechargeWriter,
	stats StatsReader,
	txReader TransactionReader,
	cache BalanceCache,
	kafkaWriter KafkaWriter,
) *AdminService {
	return &AdminService{
		accounts:    accounts,
		manager:     manager,
		recharge:    recharge,
		stats:       stats,
		txReader:    txReader,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// ListUsers returns all accounts, newest-first. Admin-only.
func (s *AdminService) ListUsers(ctx context.Context, adminID uuid.UUID) ([]models.AccountDB, error) {
	if err := requireAdmin(ctx, s.accounts, adminID); err != nil {
		return nil, err
	}

	return s.accounts.List(ctx)
}

// CreateUser creates an account with the default password. With generate
// set, username and email are synthesized; otherwise both are required.
// Returns the new account and the plaintext default password.
func (s *AdminService) CreateUser(ctx context.Context, adminID uuid.UUID, username, email string, generate bool) (*models.AccountDB, string, error) {
	if err := requireAdmin(ctx, s.accounts, adminID); err != nil {
		return nil, "", err
	}

	if generate {
		n := rand.Intn(1000000)
		username = fmt.Sprintf("user_%06d", n)
		email = username + "@example.com"
	} else {
		username = strings.TrimSpace(username)
		email = strings.ToLower(strings.TrimSpace(email))
		if username == "" || !emailPattern.MatchString(email) {
			return nil, "", ErrInvalidEmail
		}
	}

	existing, err := s.accounts.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check account exists", "err", err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", err
	}

	account, err := s.manager.Save(ctx, username, email, string(hashedPassword), models.RoleUser)
	if err != nil {
		logger.Log.Errorw("failed to save account", "username", username, "err", err)
		return nil, "", err
	}

	return account, defaultPassword, nil
}

// UpdateProfile sets a user's display name. An empty name clears it.
// Admin-only.
func (s *AdminService) UpdateProfile(ctx context.Context, adminID, userID uuid.UUID, fullName string) (*models.AccountDB, error) {
	if err := requireAdmin(ctx, s.accounts, adminID); err != nil {
		return nil, err
	}

	var name *string
	if trimmed := strings.TrimSpace(fullName); trimmed != "" {
		name = &trimmed
	}

	account, err := s.manager.UpdateFullName(ctx, userID, name)
	if err != nil {
		logger.Log.Errorw("failed to update profile", "userID", userID, "err", err)
		return nil, err
	}
	if account == nil {
		return nil, models.ErrAccountNotFound
	}

	return account, nil
}

// Recharge credits a user's balance directly, recording an approved
// deposit transaction in the same atomic unit. Admin-only.
func (s *AdminService) Recharge(ctx context.Context, adminID, userID uuid.UUID, amount decimal.Decimal) (*models.TransactionDB, decimal.Decimal, error) {
	if err := requireAdmin(ctx, s.accounts, adminID); err != nil {
		return nil, decimal.Zero, err
	}

	if !amount.IsPositive() {
		return nil, decimal.Zero, ErrInvalidAmount
	}

	txn, balance, err := s.recharge.SaveRecharge(ctx, userID, amount)
	if err != nil {
		logger.Log.Errorw("failed to recharge", "userID", userID, "amount", amount, "err", err)
		return nil, decimal.Zero, err
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate balance cache", "userID", userID, "error", err)
	}

	publishLedgerEvent(ctx, s.kafkaWriter, txn)

	return txn, balance, nil
}

// SystemStats returns ledger-wide aggregates and the zero-filled daily
// series. Admin-only.
func (s *AdminService) SystemStats(ctx context.Context, adminID uuid.UUID) (*models.SystemStats, error) {
	if err := requireAdmin(ctx, s.accounts, adminID); err != nil {
		return nil, err
	}

	stats, err := s.stats.Totals(ctx)
	if err != nil {
		logger.Log.Errorw("failed to get system totals", "err", err)
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -(statsWindowDays - 1)).Truncate(24 * time.Hour)
	volumes, err := s.txReader.DailyVolumes(ctx, nil, since)
	if err != nil {
		logger.Log.Errorw("failed to get daily volumes", "err", err)
		return nil, err
	}

	stats.DailyStats = fillDailyWindow(volumes, statsWindowDays)

	return stats, nil
}
