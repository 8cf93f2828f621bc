package model

import (
	"encoding/json"
	productModel "wastetoworth/internal/domain/product/model"
	userModel "wastetoworth/internal/domain/user/model"
	baseModel "wastetoworth/pkg/model"

	"github.com/shopspring/decimal"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"    // 货到付款
	PaymentWallet PaymentMethod = "WALLET" // 钱包余额
)

// ValidPayment 校验支付方式
func ValidPayment(p PaymentMethod) bool {
	return p == PaymentCOD || p == PaymentWallet
}

// Address 收货地址，下单时快照进订单，之后不可变
type Address struct {
	FullName      string `json:"fullName" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Province      string `json:"province" binding:"required"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"addressDetail"`
}

// Order 订单聚合根。只通过状态机流转修改，从不物理删除。
// Total 在创建时按 条目单价×数量 求和，之后不再重算。
type Order struct {
	baseModel.BaseModel
	UserID       *string         `gorm:"type:uuid" json:"userId"` // 游客下单为 NULL
	Total        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
	Status       Status          `gorm:"default:'PENDING'" json:"status"`
	Payment      PaymentMethod   `gorm:"not null" json:"payment"`
	UserAddress  json.RawMessage `gorm:"type:jsonb" json:"userAddress"`
	CancelReason *string         `json:"cancelReason,omitempty"`

	Items []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	User  *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Buyer 还原下单人身份
func (o *Order) Buyer() Buyer {
	if o.UserID == nil {
		return Guest()
	}
	return Registered(*o.UserID)
}

// OrderItem 订单条目，创建后不可变。
// Price 是下单时刻的单价快照，与商品现价解耦。
type OrderItem struct {
	baseModel.BaseModel
	OrderID   string          `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID string          `gorm:"type:uuid;not null" json:"productId"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`

	Product *productModel.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
