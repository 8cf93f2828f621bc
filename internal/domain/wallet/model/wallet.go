package model

import (
	"time"
	baseModel "wastetoworth/pkg/model"

	"github.com/shopspring/decimal"
)

// 充值流水状态：PENDING 等待网关对账，DONE 已到账。
// 状态只允许 PENDING -> DONE 流转一次；超时未匹配的流水被直接删除。
const (
	TransactionPending = "PENDING"
	TransactionDone    = "DONE"
)

// Wallet 钱包，与用户一一对应。
// 不变量：balance >= 0 恒成立；余额只能经钱包台账操作变更。
type Wallet struct {
	baseModel.BaseModel
	UserID      string          `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Balance     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// WalletTransaction 钱包流水，append-only 审计记录。
// TransactionCode 由调用方提供，与网关转账备注相互关联。
type WalletTransaction struct {
	baseModel.BaseModel
	WalletID        string          `gorm:"type:uuid;index;not null" json:"walletId"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	TransactionCode string          `gorm:"not null" json:"transactionCode"`
	Status          string          `gorm:"default:'PENDING'" json:"status"`
	ConfirmedAt     *time.Time      `json:"confirmedAt,omitempty"`
}
