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

type adminOrderFixture struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	history   *OrderStatusHistoryRepoMock
	inventory *InventoryRepoMock

	uc *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() *adminOrderFixture {
	f := &adminOrderFixture{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		history:   new(OrderStatusHistoryRepoMock),
		inventory: new(InventoryRepoMock),
	}
	tx := &txManagerFake{repos: &txReposFake{
		orders:    f.orders,
		items:     f.items,
		history:   f.history,
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		inventory: f.inventory,
		products:  new(ProductRepoMock),
		coupons:   new(CouponRepoMock),
		sales:     new(SaleRepoMock),
		shipping:  new(ShippingRepoMock),
		payments:  new(PaymentRepoMock),
		prices:    new(MarketPriceRepoMock),
	}}
	f.uc = usecase.NewAdminOrderUsecase(tx, f.orders, fixedClock{now: testNow})
	return f
}

func TestAdminUpdateStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    model.OrderStatus
		to      string
		allowed bool
	}{
		{"pending to paid", model.OrderStatusPending, "PAID", true},
		{"pending to canceled", model.OrderStatusPending, "CANCELED", true},
		{"pending to shipped", model.OrderStatusPending, "SHIPPED", false},
		{"paid to shipped", model.OrderStatusPaid, "SHIPPED", true},
		{"paid to refunded", model.OrderStatusPaid, "REFUNDED", true},
		{"shipped to delivered", model.OrderStatusShipped, "DELIVERED", true},
		{"shipped to canceled", model.OrderStatusShipped, "CANCELED", false},
		{"delivered to refunded", model.OrderStatusDelivered, "REFUNDED", true},
		{"canceled is terminal", model.OrderStatusCanceled, "PAID", false},
		{"refunded is terminal", model.OrderStatusRefunded, "PAID", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminOrderFixture()

			f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
				ID: 42, Status: tt.from,
			}, nil)
			if tt.allowed {
				f.items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)
				f.orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatus(tt.to), testNow).Return(nil)
				f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
			}

			err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.UpdateOrderStatusInput{Status: tt.to})
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assertHTTPError(t, err, http.StatusConflict, "invalid status transition")
			}
		})
	}
}

func TestAdminUpdateStatus_RefundRestoresStock(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusPaid,
	}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{OrderID: 42, ProductID: 100, Quantity: 2},
		{OrderID: 42, ProductID: 200, Quantity: 1},
	}, nil)
	f.inventory.On("RestoreStock", mock.Anything, int64(100), int64(2)).Return(nil)
	f.inventory.On("RestoreStock", mock.Anything, int64(200), int64(1)).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusRefunded, testNow).Return(nil)

	adminID := int64(9)
	f.history.On("Create", mock.Anything, mock.MatchedBy(func(h model.OrderStatusHistory) bool {
		return h.OrderID == 42 &&
			h.Status == model.OrderStatusRefunded &&
			h.Notes == "customer refund" &&
			h.CreatedByID != nil && *h.CreatedByID == adminID
	})).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), adminID, 42, usecase.UpdateOrderStatusInput{
		Status: "REFUNDED", Notes: "customer refund",
	})
	assert.NoError(t, err)

	f.inventory.AssertExpectations(t)
	f.history.AssertExpectations(t)
}

func TestAdminUpdateStatus_ShipDoesNotTouchStock(t *testing.T) {
	f := newAdminOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, Status: model.OrderStatusPaid,
	}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusShipped, testNow).Return(nil)
	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.UpdateOrderStatusInput{Status: "SHIPPED"})
	assert.NoError(t, err)

	f.inventory.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	f.items.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_UnknownStatus(t *testing.T) {
	f := newAdminOrderFixture()

	err := f.uc.UpdateStatus(context.Background(), 1, 42, usecase.UpdateOrderStatusInput{Status: "LOST"})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")

	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAdminListOrders(t *testing.T) {
	t.Run("applies defaults and filter", func(t *testing.T) {
		f := newAdminOrderFixture()

		f.orders.On("ListAdmin", mock.Anything, mock.MatchedBy(func(q repo.AdminOrderListFilter) bool {
			return q.Page == 1 && q.Limit == 20 && q.Status == "PAID"
		})).Return([]model.Order{{ID: 1}}, int64(1), nil)

		out, err := f.uc.ListOrders(context.Background(), usecase.AdminOrderListInput{Status: "PAID"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), out.Total)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		f := newAdminOrderFixture()

		_, err := f.uc.ListOrders(context.Background(), usecase.AdminOrderListInput{Status: "LOST"})
		assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
	})
}
