package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`

	//住所は注文時点の値を複製して凍結する
	ShippingName       string `gorm:"type:varchar(255)" json:"shipping_name"`
	ShippingStreet     string `gorm:"type:varchar(200)" json:"shipping_street"`
	ShippingCity       string `gorm:"type:varchar(100)" json:"shipping_city"`
	ShippingPostalCode string `gorm:"type:varchar(20)" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"type:varchar(100)" json:"shipping_country"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"shipping_cost"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`

	CouponCode string `gorm:"type:varchar(50)" json:"coupon_code"`

	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// 明細から都度合計する。Orderの保存値とズレたら明細が正。
func OrderItemsSubtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.TotalPrice())
	}
	return sum
}

func OrderItemsProfit(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Profit())
	}
	return sum
}
