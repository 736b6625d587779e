package repository

import (
	"context"

	"app/internal/domain/model"
)

type MarketPriceRepository interface {
	FindByProductID(ctx context.Context, productID int64) (model.MarketPrice, error)

	// product_idごとに1行を上書き
	Upsert(ctx context.Context, mp model.MarketPrice) error
}
