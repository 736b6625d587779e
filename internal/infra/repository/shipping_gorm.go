package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ShippingGormRepository struct {
	db *gorm.DB
}

func NewShippingGormRepository(db *gorm.DB) *ShippingGormRepository {
	return &ShippingGormRepository{db: db}
}

// 国コードからゾーンを引く。countriesはカンマ区切りで保持している。
func (r *ShippingGormRepository) FindZoneByCountry(ctx context.Context, countryCode string) (model.ShippingZone, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))

	var zones []model.ShippingZone
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&zones).Error
	if err != nil {
		return model.ShippingZone{}, err
	}

	for _, z := range zones {
		for _, c := range strings.Split(z.Countries, ",") {
			if strings.ToUpper(strings.TrimSpace(c)) == code {
				return z, nil
			}
		}
	}
	return model.ShippingZone{}, repo.ErrNotFound
}

func (r *ShippingGormRepository) ListMethodsByZone(ctx context.Context, zoneID int64) ([]model.ShippingMethod, error) {
	var methods []model.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND is_active = ?", zoneID, true).
		Order("base_cost asc").Order("id asc").
		Find(&methods).Error
	if err != nil {
		return []model.ShippingMethod{}, err
	}
	return methods, nil
}

func (r *ShippingGormRepository) FindMethodByID(ctx context.Context, id int64) (model.ShippingMethod, error) {
	var m model.ShippingMethod
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ShippingMethod{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ShippingMethod{}, err
	}
	return m, nil
}

func (r *ShippingGormRepository) CreateRate(ctx context.Context, rate model.ShippingRate) error {
	return r.db.WithContext(ctx).Create(&rate).Error
}
