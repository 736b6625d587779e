package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByTransactionID(ctx context.Context, txID string) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", txID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error) {
	var items []model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Payment{}, err
	}
	return items, nil
}

func (r *PaymentGormRepository) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, completedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
