package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MarketPriceGormRepository struct {
	db *gorm.DB
}

func NewMarketPriceGormRepository(db *gorm.DB) *MarketPriceGormRepository {
	return &MarketPriceGormRepository{db: db}
}

func (r *MarketPriceGormRepository) FindByProductID(ctx context.Context, productID int64) (model.MarketPrice, error) {
	var mp model.MarketPrice
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&mp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MarketPrice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MarketPrice{}, err
	}
	return mp, nil
}

// product_idで1行に上書き
func (r *MarketPriceGormRepository) Upsert(ctx context.Context, mp model.MarketPrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "source", "currency", "observed_at", "updated_at"}),
		}).
		Create(&mp).Error
}
