package repository

import (
	"context"

	"app/internal/domain/model"
)

type ShippingRepository interface {
	// 国コードからゾーンを引く
	FindZoneByCountry(ctx context.Context, countryCode string) (model.ShippingZone, error)
	ListMethodsByZone(ctx context.Context, zoneID int64) ([]model.ShippingMethod, error)
	FindMethodByID(ctx context.Context, id int64) (model.ShippingMethod, error)

	CreateRate(ctx context.Context, rate model.ShippingRate) error
}
