package repository

import (
	"errors"
	"wastetoworth/internal/domain/product/model"

	"gorm.io/gorm"
)

// ErrStockExhausted 守卫更新未命中任何行，即库存不足
var ErrStockExhausted = errors.New("stock exhausted")

// ProductRepository 商品读取 + 库存台账。
// ReserveStock/ReleaseStock 是下单与取消共用的唯一库存算术入口，
// 两条路径不允许各写一份加减逻辑。
type ProductRepository interface {
	GetByID(id string) (*model.Product, error)
	// ReserveStock 在调用方事务内扣减库存：stock -= qty, sold += qty。
	// 条件更新带 stock >= qty 守卫，未命中返回 ErrStockExhausted。
	ReserveStock(tx *gorm.DB, productID string, qty int) error
	// ReleaseStock 取消订单时的补偿动作：stock += qty, sold -= qty
	ReleaseStock(tx *gorm.DB, productID string, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ReserveStock(tx *gorm.DB, productID string, qty int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock - ?", qty),
			"sold":  gorm.Expr("sold + ?", qty),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockExhausted
	}
	return nil
}

func (r *productRepository) ReleaseStock(tx *gorm.DB, productID string, qty int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock + ?", qty),
			"sold":  gorm.Expr("sold - ?", qty),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
