package repository

import (
	"wastetoworth/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderRepository 订单聚合持久化。
// 状态写入只有 UpdateStatus 一个入口，带"比较当前状态再写"守卫，
// 保证同一订单上的流转按全序执行。
type OrderRepository interface {
	// Transact 打开一个原子工作单元，fn 返回错误则整体回滚
	Transact(fn func(tx *gorm.DB) error) error

	// Create 在事务内创建订单及其条目
	Create(tx *gorm.DB, order *model.Order) error

	// GetByID 加载聚合：条目、商品、买家
	GetByID(id string) (*model.Order, error)

	// UpdateStatus 守卫流转：WHERE id = ? AND status = from。
	// 返回 false 表示当前状态已不是 from，没有任何写入发生。
	UpdateStatus(tx *gorm.DB, orderID string, from, to model.Status, reason *string) (bool, error)

	// ListByUser 用户侧订单列表，可按状态过滤，新的在前
	ListByUser(userID string, status string, limit int) ([]model.Order, error)

	// List 管理端订单列表，可按状态过滤
	List(status string) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Transact(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(tx *gorm.DB, orderID string, from, to model.Status, reason *string) (bool, error) {
	updates := map[string]interface{}{
		"status": to,
	}
	if reason != nil {
		updates["cancel_reason"] = *reason
	}

	result := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *orderRepository) ListByUser(userID string, status string, limit int) ([]model.Order, error) {
	q := r.db.
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var orders []model.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) List(status string) ([]model.Order, error) {
	q := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("User").
		Order("created_at DESC")

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []model.Order
	err := q.Find(&orders).Error
	return orders, err
}
