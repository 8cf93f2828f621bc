package model

import (
	baseModel "wastetoworth/pkg/model"

	"github.com/shopspring/decimal"
)

// 商品状态
const (
	ProductStatusActive = "ACTIVE"
	ProductStatusHidden = "HIDDEN"
)

// Product 商品模型。目录的增删改由外部协作方负责；
// 本核心只读取价格/库存做校验，并通过库存台账修改 stock/sold。
// 不变量：stock >= 0 恒成立，一对 create/cancel 前后 stock+sold 不变。
type Product struct {
	baseModel.BaseModel
	Name   string          `gorm:"not null" json:"name"`
	Price  decimal.Decimal `gorm:"type:numeric(18,2)" json:"price"`
	Stock  int             `gorm:"not null;default:0" json:"stock"`
	Sold   int             `gorm:"not null;default:0" json:"sold"`
	Status string          `gorm:"default:'ACTIVE'" json:"status"`
}
