package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのACTIVEカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {

	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		now := time.Now()
		newCart := model.Cart{
			UserID:    userID,
			Status:    model.CartStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newCart).Error; err != nil {
			retryErr := tx.
				Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// ユーザーのACTIVEカートを取得
func (r *CartGormRepository) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.CartStatusActive).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// carts.statusを更新
func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細の全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
