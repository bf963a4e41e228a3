// Package wallet implements the wallet ledger on the application database.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "finsim/internal/domain/wallet"
	"finsim/internal/infrastructure/persistence/mappers"
	"finsim/internal/infrastructure/persistence/models"
	"finsim/internal/shared/db"
	sharedErrors "finsim/internal/shared/errors"
	"finsim/internal/shared/id"
	"finsim/internal/shared/logger"
)

// GormLedger keeps balances and movements in the wallets tables. It joins
// the transaction carried by ctx, so a caller rollback also undoes the
// movement. Each call runs in its own savepoint so a rejected movement never
// poisons the caller's transaction.
type GormLedger struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewGormLedger(db *gorm.DB, logger logger.Interface) *GormLedger {
	return &GormLedger{db: db, logger: logger}
}

func (l *GormLedger) Debit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return l.apply(ctx, userID, requestID, domain.KindDebit, amount)
}

func (l *GormLedger) Credit(ctx context.Context, userID uint, requestID string, amount decimal.Decimal) (string, error) {
	return l.apply(ctx, userID, requestID, domain.KindCredit, amount)
}

func (l *GormLedger) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var w models.WalletModel
	err := db.GetTxFromContext(ctx, l.db).Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, classify(err)
	}
	return w.Balance, nil
}

// Transactions lists the latest movements of a user, newest first.
func (l *GormLedger) Transactions(ctx context.Context, userID uint, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var modelList []*models.WalletTransactionModel
	if err := db.GetTxFromContext(ctx, l.db).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&modelList).Error; err != nil {
		return nil, classify(err)
	}

	txs := make([]domain.Transaction, 0, len(modelList))
	for _, m := range modelList {
		txs = append(txs, mappers.WalletTransactionToEntity(m))
	}
	return txs, nil
}

func (l *GormLedger) apply(ctx context.Context, userID uint, requestID string, kind domain.Kind, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}
	if requestID == "" {
		return "", fmt.Errorf("%w: request id is required", domain.ErrRequestConflict)
	}

	var txID string
	err := db.GetTxFromContext(ctx, l.db).Transaction(func(tx *gorm.DB) error {
		existing, err := findByRequestID(tx, requestID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := sameOperation(existing, userID, kind, amount); err != nil {
				return err
			}
			txID = existing.TxID
			return nil
		}

		balance, err := move(tx, userID, kind, amount)
		if err != nil {
			return err
		}

		newID, err := id.NewWalletTransactionID()
		if err != nil {
			return err
		}
		record := mappers.WalletTransactionToModel(domain.Transaction{
			TxID:         newID,
			UserID:       userID,
			RequestID:    requestID,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: balance,
			CreatedAt:    time.Now().UTC(),
		})
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		txID = newID
		return nil
	})
	if err == nil {
		return txID, nil
	}

	// A concurrent call with the same request id won the insert.
	if sharedErrors.IsDuplicateError(err) {
		existing, findErr := findByRequestID(db.GetTxFromContext(ctx, l.db), requestID)
		if findErr == nil && existing != nil {
			if err := sameOperation(existing, userID, kind, amount); err != nil {
				return "", err
			}
			return existing.TxID, nil
		}
	}

	if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrRequestConflict) {
		return "", err
	}
	l.logger.Errorw("wallet movement failed",
		"error", err,
		"user_id", userID,
		"request_id", requestID,
		"kind", kind,
	)
	return "", classify(err)
}

func findByRequestID(tx *gorm.DB, requestID string) (*models.WalletTransactionModel, error) {
	var m models.WalletTransactionModel
	err := tx.Where("request_id = ?", requestID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func sameOperation(m *models.WalletTransactionModel, userID uint, kind domain.Kind, amount decimal.Decimal) error {
	if m.UserID != userID || m.Kind != string(kind) || !m.Amount.Equal(amount) {
		return fmt.Errorf("%w: %s", domain.ErrRequestConflict, m.RequestID)
	}
	return nil
}

// move applies the balance change and returns the new balance. Debits are
// guarded in SQL so concurrent debits can never overdraw.
func move(tx *gorm.DB, userID uint, kind domain.Kind, amount decimal.Decimal) (decimal.Decimal, error) {
	w := models.WalletModel{UserID: userID, Balance: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&w).Error; err != nil {
		return decimal.Zero, err
	}

	query := tx.Model(&models.WalletModel{}).Where("user_id = ?", userID)
	var result *gorm.DB
	switch kind {
	case domain.KindDebit:
		result = query.Where("balance >= ?", amount).Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	default:
		result = query.Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	}
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, domain.ErrInsufficientFunds
	}

	var updated models.WalletModel
	if err := tx.Where("user_id = ?", userID).First(&updated).Error; err != nil {
		return decimal.Zero, err
	}
	return updated.Balance, nil
}

// classify maps storage failures that are worth retrying to
// ErrWalletUnavailable and keeps everything else as is.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "bad connection") {
		return fmt.Errorf("%w: %v", domain.ErrWalletUnavailable, err)
	}
	return fmt.Errorf("wallet storage failure: %w", err)
}
