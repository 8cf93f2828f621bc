package repository

import (
	"errors"
	"time"
	"wastetoworth/internal/domain/wallet/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrBalanceExhausted 守卫更新未命中任何行，即余额不足
var ErrBalanceExhausted = errors.New("balance exhausted")

// WalletRepository 钱包台账。Debit/Credit 是余额的唯一写入口，
// 必须在调用方事务内执行，绝不独立提交。
type WalletRepository interface {
	// Transact 打开一个原子工作单元，fn 返回错误则整体回滚
	Transact(fn func(tx *gorm.DB) error) error

	GetByUserID(userID string) (*model.Wallet, error)
	GetByID(id string) (*model.Wallet, error)

	// Debit 守卫扣款：balance >= amount 不满足时返回 ErrBalanceExhausted，
	// 不产生任何写入。每次变更都刷新 last_updated。
	Debit(tx *gorm.DB, walletID string, amount decimal.Decimal) error
	// Credit 入账，同样刷新 last_updated
	Credit(tx *gorm.DB, walletID string, amount decimal.Decimal) error

	CreateTransaction(tx *gorm.DB, wt *model.WalletTransaction) error
	ListTransactions(walletID string) ([]model.WalletTransaction, error)
	ListPending() ([]model.WalletTransaction, error)
	// MarkDone 将流水 PENDING -> DONE，守卫在当前状态上，
	// 返回 false 表示别的周期已经处理过（幂等保护）
	MarkDone(tx *gorm.DB, transactionID string, confirmedAt time.Time) (bool, error)
	DeleteTransaction(transactionID string) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Transact(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *walletRepository) GetByUserID(userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := r.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetByID(id string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := r.db.First(&wallet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) Debit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	result := tx.Model(&model.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance - ?", amount),
			"last_updated": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBalanceExhausted
	}
	return nil
}

func (r *walletRepository) Credit(tx *gorm.DB, walletID string, amount decimal.Decimal) error {
	result := tx.Model(&model.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"last_updated": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(tx *gorm.DB, wt *model.WalletTransaction) error {
	return tx.Create(wt).Error
}

func (r *walletRepository) ListTransactions(walletID string) ([]model.WalletTransaction, error) {
	var txns []model.WalletTransaction
	err := r.db.
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}

func (r *walletRepository) ListPending() ([]model.WalletTransaction, error) {
	var txns []model.WalletTransaction
	err := r.db.
		Where("status = ?", model.TransactionPending).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (r *walletRepository) MarkDone(tx *gorm.DB, transactionID string, confirmedAt time.Time) (bool, error) {
	result := tx.Model(&model.WalletTransaction{}).
		Where("id = ? AND status = ?", transactionID, model.TransactionPending).
		Updates(map[string]interface{}{
			"status":       model.TransactionDone,
			"confirmed_at": confirmedAt,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *walletRepository) DeleteTransaction(transactionID string) error {
	return r.db.Delete(&model.WalletTransaction{}, "id = ?", transactionID).Error
}
