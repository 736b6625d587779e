package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "PERCENTAGE"
	DiscountTypeFixed        DiscountType = "FIXED"
	DiscountTypeFreeShipping DiscountType = "FREE_SHIPPING"
)

// クーポン判定の結果。先に落ちた理由をそのまま返す。
type CouponReason string

const (
	CouponValid          CouponReason = "VALID"
	CouponInactive       CouponReason = "INACTIVE"
	CouponNotYetValid    CouponReason = "NOT_YET_VALID"
	CouponExpired        CouponReason = "EXPIRED"
	CouponUsageExhausted CouponReason = "USAGE_EXHAUSTED"
	CouponNotForUser     CouponReason = "NOT_FOR_USER"
	CouponPerUserLimit   CouponReason = "PER_USER_LIMIT"
)

type Coupon struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description string       `gorm:"type:text" json:"description"`
	Type        DiscountType `gorm:"type:varchar(20);not null" json:"type"`

	//percentageなら割引率、fixedなら割引額
	Value decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"value"`

	MinimumPurchase *decimal.Decimal `gorm:"type:numeric(10,2)" json:"minimum_purchase"`
	MaximumDiscount *decimal.Decimal `gorm:"type:numeric(10,2)" json:"maximum_discount"`

	UsageLimit        *int64 `json:"usage_limit"`
	UsageLimitPerUser *int64 `json:"usage_limit_per_user"`
	UsageCount        int64  `gorm:"not null;default:0" json:"usage_count"`

	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil time.Time `gorm:"not null" json:"valid_until"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`

	//空なら全ユーザー向け
	AllowedUsers []User `gorm:"many2many:coupon_allowed_users" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 判定は順序付きの述語リスト。最初に落ちた理由が結果になる。
func (c Coupon) Validate(now time.Time) CouponReason {
	checks := []struct {
		failed bool
		reason CouponReason
	}{
		{!c.IsActive, CouponInactive},
		{now.Before(c.ValidFrom), CouponNotYetValid},
		{now.After(c.ValidUntil), CouponExpired},
		{c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit, CouponUsageExhausted},
	}
	for _, ch := range checks {
		if ch.failed {
			return ch.reason
		}
	}
	return CouponValid
}

// 注文合計に対する割引額。free_shippingの金銭的な割引は常に0で、
// 送料側の扱いはチェックアウトが決める。
func (c Coupon) CalculateDiscount(orderTotal decimal.Decimal) decimal.Decimal {
	if c.MinimumPurchase != nil && orderTotal.LessThan(*c.MinimumPurchase) {
		return decimal.Zero
	}

	switch c.Type {
	case DiscountTypePercentage:
		amount := orderTotal.Mul(c.Value).Div(oneHundred).Round(2)
		if c.MaximumDiscount != nil && amount.GreaterThan(*c.MaximumDiscount) {
			amount = *c.MaximumDiscount
		}
		return amount
	case DiscountTypeFixed:
		if c.Value.GreaterThan(orderTotal) {
			return orderTotal
		}
		return c.Value
	default:
		return decimal.Zero
	}
}
