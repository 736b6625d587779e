package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAddressCreate(t *testing.T) {
	t.Run("normalizes fields", func(t *testing.T) {
		addresses := new(AddressRepoMock)
		uc := usecase.NewAddressUsecase(addresses)

		addresses.On("Create", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
			return a.UserID == 1 && a.Name == "Ash Ketchum" &&
				a.Street == "1 Pallet Town Rd" && a.Country == "US"
		})).Return(model.Address{ID: 3}, nil)

		created, err := uc.Create(context.Background(), 1, usecase.SaveAddressInput{
			Name:       " Ash Ketchum ",
			Street:     "1 Pallet Town Rd",
			City:       "Viridian",
			PostalCode: "10001",
			Country:    "us",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), created.ID)
	})

	t.Run("rejects incomplete address", func(t *testing.T) {
		addresses := new(AddressRepoMock)
		uc := usecase.NewAddressUsecase(addresses)

		_, err := uc.Create(context.Background(), 1, usecase.SaveAddressInput{
			Name: "Ash Ketchum", City: "Viridian",
		})
		assertHTTPError(t, err, http.StatusBadRequest, "incomplete address")

		addresses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAddressUpdate_OthersHidden(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("FindByID", mock.Anything, int64(3)).Return(model.Address{
		ID: 3, UserID: 2,
	}, nil)

	_, err := uc.Update(context.Background(), 1, 3, usecase.SaveAddressInput{
		Name: "Ash", Street: "x", City: "y", PostalCode: "z", Country: "US",
	})
	assertHTTPError(t, err, http.StatusNotFound, "address not found")

	addresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAddressDelete(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("FindByID", mock.Anything, int64(3)).Return(model.Address{
		ID: 3, UserID: 1,
	}, nil)
	addresses.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := uc.Delete(context.Background(), 1, 3)
	assert.NoError(t, err)
	addresses.AssertExpectations(t)
}

func TestAddressSetDefault_NotFound(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("SetDefault", mock.Anything, int64(1), int64(3)).Return(repo.ErrNotFound)

	err := uc.SetDefault(context.Background(), 1, 3)
	assertHTTPError(t, err, http.StatusNotFound, "address not found")
}

func TestGetMe(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAccountUsecase(users)

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{
		ID: 1, Email: "ash@example.com", Role: model.RoleUser,
	}, nil)

	user, err := uc.GetMe(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "ash@example.com", user.Email)

	users.On("FindByID", mock.Anything, int64(2)).Return(model.User{}, repo.ErrNotFound)
	_, err = uc.GetMe(context.Background(), 2)
	assertHTTPError(t, err, http.StatusNotFound, "user not found")
}
