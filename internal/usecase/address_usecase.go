package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// AddressUsecase は住所帳。他人の住所は常に「存在しない扱い」。
type AddressUsecase struct {
	addressRepo repo.AddressRepository
}

func NewAddressUsecase(addressRepo repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addressRepo: addressRepo}
}

type SaveAddressInput struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

func (in SaveAddressInput) validate() error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Street) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.PostalCode) == "" ||
		strings.TrimSpace(in.Country) == "" {
		return NewHTTPError(http.StatusBadRequest, "incomplete address")
	}
	return nil
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in SaveAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Address{}, err
	}

	created, err := u.addressRepo.Create(ctx, model.Address{
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		Street:     strings.TrimSpace(in.Street),
		Number:     strings.TrimSpace(in.Number),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(in.Country)),
		Phone:      strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, in SaveAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Address{}, err
	}

	a, err := u.findOwned(ctx, userID, addressID)
	if err != nil {
		return model.Address{}, err
	}

	a.Name = strings.TrimSpace(in.Name)
	a.Street = strings.TrimSpace(in.Street)
	a.Number = strings.TrimSpace(in.Number)
	a.City = strings.TrimSpace(in.City)
	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	a.Phone = strings.TrimSpace(in.Phone)

	if err := u.addressRepo.Update(ctx, a); err != nil {
		if err == repo.ErrNotFound {
			return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := u.findOwned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "address not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AddressUsecase) findOwned(ctx context.Context, userID int64, addressID int64) (model.Address, error) {
	if addressID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := u.addressRepo.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if a.UserID != userID {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	return a, nil
}
