package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type paymentFixture struct {
	payments *PaymentRepoMock
	orders   *OrderRepoMock
	history  *OrderStatusHistoryRepoMock
	notifier *NotifierMock

	uc *usecase.PaymentUsecase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		payments: new(PaymentRepoMock),
		orders:   new(OrderRepoMock),
		history:  new(OrderStatusHistoryRepoMock),
		notifier: new(NotifierMock),
	}
	tx := &txManagerFake{repos: &txReposFake{
		orders:    f.orders,
		items:     new(OrderItemRepoMock),
		history:   f.history,
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		inventory: new(InventoryRepoMock),
		products:  new(ProductRepoMock),
		coupons:   new(CouponRepoMock),
		sales:     new(SaleRepoMock),
		shipping:  new(ShippingRepoMock),
		payments:  f.payments,
		prices:    new(MarketPriceRepoMock),
	}}
	f.uc = usecase.NewPaymentUsecase(tx, f.payments, f.orders, fixedClock{now: testNow}, f.notifier)
	return f
}

func TestRecordResult_Validation(t *testing.T) {
	f := newPaymentFixture()

	err := f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{Status: "COMPLETED"})
	assertHTTPError(t, err, http.StatusBadRequest, "transaction_id")

	err = f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{
		TransactionID: "tx-1", Status: "PENDING",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
}

func TestRecordResult_Completed(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "tx-1").Return(model.Payment{
		ID: 7, TransactionID: "tx-1", OrderID: 42, Status: model.PaymentStatusPending,
	}, nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, OrderNumber: "ord-1", Status: model.OrderStatusPending,
	}, nil)

	f.payments.On("UpdateStatus", mock.Anything, int64(7), model.PaymentStatusCompleted, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil && at.Equal(testNow)
	})).Return(nil)
	f.orders.On("UpdatePaymentStatus", mock.Anything, int64(42), model.PaymentStatusCompleted).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusPaid, testNow).Return(nil)
	f.history.On("Create", mock.Anything, mock.MatchedBy(func(h model.OrderStatusHistory) bool {
		return h.OrderID == 42 && h.Status == model.OrderStatusPaid
	})).Return(nil)

	err := f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{
		TransactionID: "tx-1", Status: "COMPLETED",
	})
	assert.NoError(t, err)

	f.payments.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.notifier.AssertNotCalled(t, "PaymentFailed", mock.Anything, mock.Anything)
}

func TestRecordResult_Failed_Notifies(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "tx-1").Return(model.Payment{
		ID: 7, TransactionID: "tx-1", OrderID: 42, Status: model.PaymentStatusPending,
	}, nil)
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, OrderNumber: "ord-1", ShippingName: "Ash Ketchum",
	}, nil)

	f.payments.On("UpdateStatus", mock.Anything, int64(7), model.PaymentStatusFailed, (*time.Time)(nil)).Return(nil)
	f.orders.On("UpdatePaymentStatus", mock.Anything, int64(42), model.PaymentStatusFailed).Return(nil)
	f.notifier.On("PaymentFailed", mock.Anything, mock.MatchedBy(func(ev usecase.PaymentFailedEvent) bool {
		return ev.OrderID == 42 && ev.TransactionID == "tx-1" && ev.Recipient == "Ash Ketchum"
	})).Return()

	err := f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{
		TransactionID: "tx-1", Status: "FAILED",
	})
	assert.NoError(t, err)

	//FAILEDでは注文ステータス自体は動かさない
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertExpectations(t)
}

func TestRecordResult_IdempotentOnTerminalState(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "tx-1").Return(model.Payment{
		ID: 7, TransactionID: "tx-1", OrderID: 42, Status: model.PaymentStatusCompleted,
	}, nil)

	err := f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{
		TransactionID: "tx-1", Status: "COMPLETED",
	})
	assert.NoError(t, err)

	f.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRecordResult_UnknownTransaction(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("FindByTransactionID", mock.Anything, "tx-x").Return(model.Payment{}, repo.ErrNotFound)

	err := f.uc.RecordResult(context.Background(), usecase.PaymentResultInput{
		TransactionID: "tx-x", Status: "COMPLETED",
	})
	assertHTTPError(t, err, http.StatusNotFound, "payment not found")
}
