package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

var (
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidTransactionType is returned for an unknown transaction type.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrInvalidDecision is returned for an unknown review decision.
	ErrInvalidDecision = errors.New("invalid review decision")
)

// statsWindowDays is the length of the daily stats series.
const statsWindowDays = 30

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	Save(ctx context.Context, userID uuid.UUID, txType string, amount decimal.Decimal) (*models.TransactionDB, error)
	ApplyReview(ctx context.Context, transactionID uuid.UUID, decision string) (*models.TransactionDB, error)
}

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, error)
	DailyVolumes(ctx context.Context, userID *uuid.UUID, since time.Time) ([]models.DailyVolume, error)
}

// BalanceCache caches balances for the read side.
type BalanceCache interface {
	Get(ctx context.Context, userID uuid.UUID) (decimal.Decimal, bool, error)
	Set(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// LedgerService implements transaction creation, the review workflow and
// the read-side listings.
type LedgerService struct {
	writeRepo   TransactionWriter
	readRepo    TransactionReader
	accounts    AccountGetter
	cache       BalanceCache
	kafkaWriter KafkaWriter
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	writeRepo TransactionWriter,
	readRepo TransactionReader,
	accounts AccountGetter,
	cache BalanceCache,
	kafkaWriter KafkaWriter,
) *LedgerService {
	return &LedgerService{
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		accounts:    accounts,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a ledger event to Kafka. Publishing is a pure
// observer: failures are logged and never affect the result.
func (s *LedgerService) publishEvent(ctx context.Context, txn *models.TransactionDB) {
	publishLedgerEvent(ctx, s.kafkaWriter, txn)
}

func publishLedgerEvent(ctx context.Context, writer KafkaWriter, txn *models.TransactionDB) {
	if writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	event := models.LedgerEvent{
		TransactionID: txn.TransactionID.String(),
		UserID:        txn.UserID.String(),
		Amount:        txn.Amount.String(),
		Type:          txn.Type,
		Status:        txn.Status,
		Timestamp:     time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal ledger event", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish ledger event", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Ledger event published", "transaction_id", txn.TransactionID, "status", event.Status)
	}
}

// CreateTransaction records a pending deposit or withdraw request for the
// user. Withdrawals get an advisory balance check here; the authoritative
// check happens again at review time inside the same atomic unit as the
// debit.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID uuid.UUID, txType string, amount decimal.Decimal) (*models.TransactionDB, error) {
	if txType != models.TypeDeposit && txType != models.TypeWithdraw {
		return nil, ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if txType == models.TypeWithdraw {
		account, err := s.accounts.GetByUserID(ctx, userID)
		if err != nil {
			logger.Log.Errorw("failed to get account for withdraw check", "userID", userID, "error", err)
			return nil, err
		}
		if account == nil {
			return nil, models.ErrAccountNotFound
		}
		if account.Balance.LessThan(amount) {
			return nil, models.ErrInsufficientBalance
		}
	}

	txn, err := s.writeRepo.Save(ctx, userID, txType, amount)
	if err != nil {
		logger.Log.Errorw("failed to save transaction", "userID", userID, "type", txType, "amount", amount, "error", err)
		return nil, err
	}

	s.publishEvent(ctx, txn)

	return txn, nil
}

// Review applies an admin decision to a pending transaction. The status
// transition and any balance mutation commit atomically in the store; of
// two concurrent reviews on the same transaction exactly one succeeds.
func (s *LedgerService) Review(ctx context.Context, reviewerID, transactionID uuid.UUID, decision string) (*models.TransactionDB, error) {
	if err := requireAdmin(ctx, s.accounts, reviewerID); err != nil {
		return nil, err
	}

	if decision != models.DecisionApprove && decision != models.DecisionReject {
		return nil, ErrInvalidDecision
	}

	txn, err := s.writeRepo.ApplyReview(ctx, transactionID, decision)
	if err != nil {
		logger.Log.Errorw("review failed", "reviewerID", reviewerID, "transactionID", transactionID, "decision", decision, "error", err)
		return nil, err
	}

	if txn.Status == models.StatusApproved {
		if err := s.cache.Invalidate(ctx, txn.UserID); err != nil {
			logger.Log.Errorw("failed to invalidate balance cache", "userID", txn.UserID, "error", err)
		}
	}

	s.publishEvent(ctx, txn)

	return txn, nil
}

// ListPending returns all pending transactions across all users,
// newest-first. Admin-only.
func (s *LedgerService) ListPending(ctx context.Context, reviewerID uuid.UUID) ([]models.TransactionDB, error) {
	if err := requireAdmin(ctx, s.accounts, reviewerID); err != nil {
		return nil, err
	}

	status := models.StatusPending
	return s.readRepo.List(ctx, models.TransactionFilter{Status: &status})
}

// ListAll returns transactions matching the filter, newest-first.
// Admin-only.
func (s *LedgerService) ListAll(ctx context.Context, reviewerID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, error) {
	if err := requireAdmin(ctx, s.accounts, reviewerID); err != nil {
		return nil, err
	}

	return s.readRepo.List(ctx, filter)
}

// ListForUser returns the caller's own transactions, newest-first.
func (s *LedgerService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error) {
	return s.readRepo.List(ctx, models.TransactionFilter{UserID: &userID})
}

// GetBalance returns the user's current balance through the read cache.
func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	balance, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.Log.Errorw("balance cache read failed", "userID", userID, "error", err)
	} else if hit {
		return balance, nil
	}

	account, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get account", "userID", userID, "error", err)
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, models.ErrAccountNotFound
	}

	if err := s.cache.Set(ctx, userID, account.Balance); err != nil {
		logger.Log.Errorw("balance cache write failed", "userID", userID, "error", err)
	}

	return account.Balance, nil
}

// UserDailyStats returns the caller's per-day deposit and withdraw volumes
// over the stats window, with zero-filled days.
func (s *LedgerService) UserDailyStats(ctx context.Context, userID uuid.UUID) ([]models.DailyVolume, error) {
	since := time.Now().AddDate(0, 0, -(statsWindowDays - 1)).Truncate(24 * time.Hour)

	volumes, err := s.readRepo.DailyVolumes(ctx, &userID, since)
	if err != nil {
		logger.Log.Errorw("failed to get daily volumes", "userID", userID, "error", err)
		return nil, err
	}

	return fillDailyWindow(volumes, statsWindowDays), nil
}

// fillDailyWindow expands sparse per-day volumes into a dense series of
// the last n days, oldest first, with zero rows for missing days.
func fillDailyWindow(volumes []models.DailyVolume, days int) []models.DailyVolume {
	byDate := make(map[string]models.DailyVolume, len(volumes))
	for _, v := range volumes {
		byDate[v.Date] = v
	}

	filled := make([]models.DailyVolume, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		if v, ok := byDate[date]; ok {
			filled = append(filled, v)
			continue
		}
		filled = append(filled, models.DailyVolume{
			Date:     date,
			Deposit:  decimal.Zero,
			Withdraw: decimal.Zero,
		})
	}

	return filled
}
