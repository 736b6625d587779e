package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AddressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) *AddressGormRepository {
	return &AddressGormRepository{db: db}
}

func (r *AddressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, err
	}
	return address, nil
}

// デフォルト住所を先頭にして返す
func (r *AddressGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	var list []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AddressGormRepository) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	var a model.Address
	err := r.db.WithContext(ctx).First(&a, addressID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Address{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Address{}, err
	}
	return a, nil
}

func (r *AddressGormRepository) Update(ctx context.Context, address model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ?", address.ID).
		Select("name", "street", "number", "city", "postal_code", "country", "phone").
		Updates(address)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AddressGormRepository) Delete(ctx context.Context, addressID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", addressID).
		Delete(&model.Address{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 既存のデフォルトを外してから張り替える
func (r *AddressGormRepository) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&model.Address{}).
			Where("user_id = ? AND is_default", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		res := tx.
			Model(&model.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
