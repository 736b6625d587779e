package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	FindByTransactionID(ctx context.Context, txID string) (model.Payment, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error)
	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, completedAt *time.Time) error
}
