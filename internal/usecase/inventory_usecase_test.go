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

type inventoryFixture struct {
	inventory *InventoryRepoMock
	products  *ProductRepoMock

	uc *usecase.InventoryUsecase
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		inventory: new(InventoryRepoMock),
		products:  new(ProductRepoMock),
	}
	f.uc = usecase.NewInventoryUsecase(f.inventory, f.products, fixedClock{now: testNow})
	return f
}

func TestAdjustStock(t *testing.T) {
	t.Run("records delta and actor", func(t *testing.T) {
		f := newInventoryFixture()

		f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{ID: 100}, nil)
		f.inventory.On("FindByProductID", mock.Anything, int64(100)).Return(model.Inventory{
			ProductID: 100, Quantity: 10, ReservedQuantity: 2, LowStockThreshold: 5,
		}, nil).Once()
		f.inventory.On("SetStock", mock.Anything, int64(100), int64(4)).Return(nil)
		f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
			return a.ProductID == 100 && a.AdminUserID == 9 &&
				a.Delta == -6 && a.Reason == "damaged in storage"
		})).Return(nil)
		f.inventory.On("FindByProductID", mock.Anything, int64(100)).Return(model.Inventory{
			ProductID: 100, Quantity: 4, ReservedQuantity: 2, LowStockThreshold: 5,
		}, nil).Once()

		out, err := f.uc.AdjustStock(context.Background(), 9, 100, usecase.AdjustStockInput{
			Quantity: 4, Reason: "  damaged in storage  ",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(4), out.Quantity)
		assert.Equal(t, int64(2), out.Available)
		assert.True(t, out.IsLowStock)

		f.inventory.AssertExpectations(t)
	})

	t.Run("requires reason", func(t *testing.T) {
		f := newInventoryFixture()

		_, err := f.uc.AdjustStock(context.Background(), 9, 100, usecase.AdjustStockInput{Quantity: 4})
		assertHTTPError(t, err, http.StatusBadRequest, "reason is required")

		f.inventory.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		f := newInventoryFixture()

		_, err := f.uc.AdjustStock(context.Background(), 9, 100, usecase.AdjustStockInput{
			Quantity: -1, Reason: "oops",
		})
		assertHTTPError(t, err, http.StatusBadRequest, "quantity")
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newInventoryFixture()

		f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)

		_, err := f.uc.AdjustStock(context.Background(), 9, 100, usecase.AdjustStockInput{
			Quantity: 4, Reason: "recount",
		})
		assertHTTPError(t, err, http.StatusNotFound, "product not found")
	})
}

func TestGetStock(t *testing.T) {
	f := newInventoryFixture()

	f.inventory.On("FindByProductID", mock.Anything, int64(100)).Return(model.Inventory{
		ProductID: 100, Quantity: 10, ReservedQuantity: 3, LowStockThreshold: 5,
	}, nil)

	out, err := f.uc.GetStock(context.Background(), 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.Quantity)
	assert.Equal(t, int64(3), out.Reserved)
	assert.Equal(t, int64(7), out.Available)
	assert.False(t, out.IsLowStock)
}

func TestLowStockReport(t *testing.T) {
	f := newInventoryFixture()

	f.inventory.On("ListLowStock", mock.Anything).Return([]model.Inventory{
		{ProductID: 100, Quantity: 2, LowStockThreshold: 5},
		{ProductID: 200, Quantity: 1, LowStockThreshold: 10},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID: 100, SKU: "PKM-001", Name: "Charizard",
	}, nil)
	//商品が引けなくても行自体は返す
	f.products.On("FindByID", mock.Anything, int64(200)).Return(model.Product{}, repo.ErrNotFound)

	rows, err := f.uc.LowStockReport(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "PKM-001", rows[0].SKU)
		assert.Equal(t, int64(2), rows[0].Available)
		assert.Empty(t, rows[1].SKU)
	}
}
