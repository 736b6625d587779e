package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// PaymentUsecase は決済結果の反映。ゲートウェイのwebhook相当で、
// transaction_id単位に注文の支払状態を進める。
type PaymentUsecase struct {
	tx          repo.TransactionManager
	paymentRepo repo.PaymentRepository
	orderRepo   repo.OrderRepository
	clock       Clock
	notifier    Notifier
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	paymentRepo repo.PaymentRepository,
	orderRepo repo.OrderRepository,
	clock Clock,
	notifier Notifier,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:          tx,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		clock:       clock,
		notifier:    notifier,
	}
}

type PaymentResultInput struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"` // COMPLETED or FAILED
	Notes         string `json:"notes"`
}

// RecordResult は決済結果を反映する。
// COMPLETED: 注文をPAIDへ。FAILED: 支払失敗を記録して通知。
// 既に終端状態のtransactionは何もしない（再送に冪等）。
func (u *PaymentUsecase) RecordResult(ctx context.Context, in PaymentResultInput) error {
	if in.TransactionID == "" {
		return NewHTTPError(http.StatusBadRequest, "missing transaction_id")
	}
	status := model.PaymentStatus(in.Status)
	if status != model.PaymentStatusCompleted && status != model.PaymentStatusFailed {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	now := u.clock.Now()
	var failedEvent *PaymentFailedEvent

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByTransactionID(ctx, in.TransactionID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.Status != model.PaymentStatusPending {
			//終端状態。再送はそのまま成功を返す。
			return nil
		}

		o, err := r.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		switch status {
		case model.PaymentStatusCompleted:
			t := now
			if err := r.Payments().UpdateStatus(ctx, p.ID, model.PaymentStatusCompleted, &t); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Orders().UpdatePaymentStatus(ctx, o.ID, model.PaymentStatusCompleted); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusPaid, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.OrderStatusHistory().Create(ctx, model.OrderStatusHistory{
				OrderID: o.ID,
				Status:  model.OrderStatusPaid,
				Notes:   "payment completed",
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		case model.PaymentStatusFailed:
			if err := r.Payments().UpdateStatus(ctx, p.ID, model.PaymentStatusFailed, nil); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Orders().UpdatePaymentStatus(ctx, o.ID, model.PaymentStatusFailed); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			failedEvent = &PaymentFailedEvent{
				OrderID:       o.ID,
				OrderNumber:   o.OrderNumber,
				TransactionID: p.TransactionID,
				Recipient:     o.ShippingName,
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if failedEvent != nil {
		u.notifier.PaymentFailed(ctx, *failedEvent)
	}
	return nil
}
