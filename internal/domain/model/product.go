package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 販売単位。カード1種でも状態×言語ごとに別Productになる。
type Product struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU    string `gorm:"type:varchar(100);not null;uniqueIndex" json:"sku"`
	CardID *int64 `gorm:"index" json:"card_id"` // サプライ品などカード以外はnull

	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Condition string `gorm:"type:varchar(20)" json:"condition"` // NM/LP/MP/HP
	Language  string `gorm:"type:varchar(20);not null;default:'English'" json:"language"`

	//仕入れ値と売値。compare_at_priceはセール表示用の元値。
	CostPrice      decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"cost_price"`
	SellingPrice   decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"selling_price"`
	CompareAtPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"compare_at_price"`

	//配送料計算用。スリーブ入りシングルなら0.020kg程度。
	WeightKg decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0.02" json:"weight_kg"`

	IsActive   bool `gorm:"not null;default:false" json:"is_active"`
	IsFeatured bool `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

var oneHundred = decimal.NewFromInt(100)

// 粗利率（%）。売値0のときは0。
func (p Product) ProfitMargin() decimal.Decimal {
	if p.SellingPrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.CostPrice).Div(p.SellingPrice).Mul(oneHundred)
}

func (p Product) ProfitAmount() decimal.Decimal {
	return p.SellingPrice.Sub(p.CostPrice)
}

// 元値が設定済みかつ現在価格より高いときだけセール扱い
func (p Product) IsOnSale() bool {
	return p.CompareAtPrice != nil && p.CompareAtPrice.GreaterThan(p.SellingPrice)
}

func (p Product) DiscountPercentage() decimal.Decimal {
	if !p.IsOnSale() {
		return decimal.Zero
	}
	return p.CompareAtPrice.Sub(p.SellingPrice).Div(*p.CompareAtPrice).Mul(oneHundred)
}
