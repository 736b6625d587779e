package usecase

import (
	"context"
	"time"
)

// テスト差し替え用の時計
type Clock interface {
	Now() time.Time
}

// 注文番号・決済トランザクションIDの発番
type IDGenerator interface {
	NewID() string
}

type OrderConfirmedEvent struct {
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Recipient   string `json:"recipient"`
	Total       string `json:"total"`
}

type PaymentFailedEvent struct {
	OrderID       int64  `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	TransactionID string `json:"transaction_id"`
	Recipient     string `json:"recipient"`
}

type LowStockEvent struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Available int64  `json:"available"`
	Threshold int64  `json:"threshold"`
}

// 通知はfire-and-forget。失敗しても業務フローは止めない。
type Notifier interface {
	OrderConfirmed(ctx context.Context, ev OrderConfirmedEvent)
	PaymentFailed(ctx context.Context, ev PaymentFailedEvent)
	LowStock(ctx context.Context, ev LowStockEvent)
}
