package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ストア全体のセール。ユーザー単位の制限はない。
type Sale struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percentage"`

	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null" json:"valid_until"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`

	//複数該当時はpriorityが大きいものを採用
	Priority int `gorm:"not null;default:0" json:"priority"`

	//空なら全商品対象
	Products []Product `gorm:"many2many:sale_products" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (s Sale) IsValid(now time.Time) bool {
	return s.IsActive && !now.Before(s.ValidFrom) && !now.After(s.ValidUntil)
}

// セール適用後の単価（半端は切り上げずhalf-upで2桁丸め）
func (s Sale) Apply(unitPrice decimal.Decimal) decimal.Decimal {
	factor := oneHundred.Sub(s.DiscountPercentage).Div(oneHundred)
	return unitPrice.Mul(factor).Round(2)
}

// 該当セールからpriority最大を選ぶ。同priorityは先勝ち。
func PickSale(sales []Sale, now time.Time) (Sale, bool) {
	var best Sale
	found := false
	for _, s := range sales {
		if !s.IsValid(now) {
			continue
		}
		if !found || s.Priority > best.Priority {
			best = s
			found = true
		}
	}
	return best, found
}
