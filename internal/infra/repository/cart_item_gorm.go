package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", id).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
