package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 配送ゾーン。国コードのリストで判定する。
type ShippingZone struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Countries string    `gorm:"type:varchar(500);not null" json:"countries"` // カンマ区切りの国コード
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type ShippingMethod struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ZoneID int64 `gorm:"not null;index" json:"zone_id"`

	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	BaseCost  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_cost"`
	CostPerKg decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost_per_kg"`

	FreeShippingThreshold *decimal.Decimal `gorm:"type:numeric(10,2)" json:"free_shipping_threshold"`

	EstimatedDaysMin int  `gorm:"not null;default:1" json:"estimated_days_min"`
	EstimatedDaysMax int  `gorm:"not null;default:7" json:"estimated_days_max"`
	IsActive         bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文合計が閾値以上なら送料無料、それ以外は基本料+重量課金。
func (m ShippingMethod) CalculateCost(orderTotal decimal.Decimal, weightKg decimal.Decimal) decimal.Decimal {
	if m.FreeShippingThreshold != nil && orderTotal.GreaterThanOrEqual(*m.FreeShippingThreshold) {
		return decimal.Zero
	}
	return m.BaseCost.Add(m.CostPerKg.Mul(weightKg)).Round(2)
}

// 注文に紐づく確定送料（凍結値）
type ShippingRate struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64           `gorm:"not null;uniqueIndex" json:"order_id"`
	ShippingMethodID int64           `gorm:"not null" json:"shipping_method_id"`
	Cost             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cost"`
	WeightKg         decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"weight_kg"`
	TrackingNumber   string          `gorm:"type:varchar(100)" json:"tracking_number"`
	Carrier          string          `gorm:"type:varchar(100)" json:"carrier"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
