package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ShippingUsecase は配送方法の公開参照。
type ShippingUsecase struct {
	shippingRepo repo.ShippingRepository
}

func NewShippingUsecase(shippingRepo repo.ShippingRepository) *ShippingUsecase {
	return &ShippingUsecase{shippingRepo: shippingRepo}
}

// ListMethodsForCountry は配送先の国で使える配送方法を返す。
func (u *ShippingUsecase) ListMethodsForCountry(ctx context.Context, countryCode string) ([]model.ShippingMethod, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if countryCode == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "missing country")
	}

	zone, err := u.shippingRepo.FindZoneByCountry(ctx, countryCode)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "no shipping to this country")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	methods, err := u.shippingRepo.ListMethodsByZone(ctx, zone.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	active := make([]model.ShippingMethod, 0, len(methods))
	for _, m := range methods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}
