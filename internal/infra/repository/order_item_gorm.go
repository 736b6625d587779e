package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

type OrderStatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewOrderStatusHistoryGormRepository(db *gorm.DB) *OrderStatusHistoryGormRepository {
	return &OrderStatusHistoryGormRepository{db: db}
}

func (r *OrderStatusHistoryGormRepository) Create(ctx context.Context, h model.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(&h).Error
}

func (r *OrderStatusHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	var items []model.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.OrderStatusHistory{}, err
	}
	return items, nil
}
