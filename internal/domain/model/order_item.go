package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。作成時点のカタログ値を凍結し、以後再計算しない。
// 利益レポートのためにcost_priceも明細側へ複製する。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	ProductSKUSnapshot  string          `gorm:"type:varchar(100);not null" json:"product_sku_snapshot"`
	CostPriceSnapshot   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost_price_snapshot"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price_snapshot"`

	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (it OrderItem) TotalPrice() decimal.Decimal {
	return it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity))
}

func (it OrderItem) Profit() decimal.Decimal {
	return it.UnitPriceSnapshot.Sub(it.CostPriceSnapshot).Mul(decimal.NewFromInt(it.Quantity))
}
