package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func i64(v int64) *int64 { return &v }

var (
	couponNow    = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	couponFrom   = couponNow.Add(-24 * time.Hour)
	couponUntil  = couponNow.Add(24 * time.Hour)
	couponPast   = couponNow.Add(-48 * time.Hour)
	couponFuture = couponNow.Add(48 * time.Hour)
)

func TestCouponValidate(t *testing.T) {
	base := Coupon{
		IsActive:   true,
		ValidFrom:  couponFrom,
		ValidUntil: couponUntil,
	}

	t.Run("valid", func(t *testing.T) {
		assert.Equal(t, CouponValid, base.Validate(couponNow))
	})

	t.Run("inactive", func(t *testing.T) {
		c := base
		c.IsActive = false
		assert.Equal(t, CouponInactive, c.Validate(couponNow))
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := base
		c.ValidFrom = couponFuture
		assert.Equal(t, CouponNotYetValid, c.Validate(couponNow))
	})

	t.Run("expired", func(t *testing.T) {
		c := base
		c.ValidUntil = couponPast
		assert.Equal(t, CouponExpired, c.Validate(couponNow))
	})

	t.Run("usage exhausted", func(t *testing.T) {
		c := base
		c.UsageLimit = i64(5)
		c.UsageCount = 5
		assert.Equal(t, CouponUsageExhausted, c.Validate(couponNow))
	})

	//無効フラグは期限切れより先に判定される
	t.Run("inactive wins over expired", func(t *testing.T) {
		c := base
		c.IsActive = false
		c.ValidUntil = couponPast
		assert.Equal(t, CouponInactive, c.Validate(couponNow))
	})

	//期限切れは回数超過より先
	t.Run("expired wins over exhausted", func(t *testing.T) {
		c := base
		c.ValidUntil = couponPast
		c.UsageLimit = i64(1)
		c.UsageCount = 1
		assert.Equal(t, CouponExpired, c.Validate(couponNow))
	})
}

func TestCouponCalculateDiscount(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		c := Coupon{Type: DiscountTypePercentage, Value: d("10")}
		assert.Equal(t, "10.00", c.CalculateDiscount(d("100.00")).StringFixed(2))
	})

	t.Run("percentage rounds", func(t *testing.T) {
		c := Coupon{Type: DiscountTypePercentage, Value: d("15")}
		// 33.33 * 0.15 = 4.9995 -> 5.00
		assert.Equal(t, "5.00", c.CalculateDiscount(d("33.33")).StringFixed(2))
	})

	t.Run("percentage capped by maximum", func(t *testing.T) {
		c := Coupon{Type: DiscountTypePercentage, Value: d("50"), MaximumDiscount: dp("20.00")}
		assert.Equal(t, "20.00", c.CalculateDiscount(d("100.00")).StringFixed(2))
	})

	t.Run("fixed", func(t *testing.T) {
		c := Coupon{Type: DiscountTypeFixed, Value: d("5.00")}
		assert.Equal(t, "5.00", c.CalculateDiscount(d("100.00")).StringFixed(2))
	})

	//固定額は注文合計を超えない
	t.Run("fixed never exceeds total", func(t *testing.T) {
		c := Coupon{Type: DiscountTypeFixed, Value: d("50.00")}
		assert.Equal(t, "30.00", c.CalculateDiscount(d("30.00")).StringFixed(2))
	})

	//送料無料の金銭的割引は常に0
	t.Run("free shipping is zero", func(t *testing.T) {
		c := Coupon{Type: DiscountTypeFreeShipping, Value: d("0")}
		assert.True(t, c.CalculateDiscount(d("100.00")).IsZero())
	})

	t.Run("below minimum purchase", func(t *testing.T) {
		c := Coupon{Type: DiscountTypePercentage, Value: d("10"), MinimumPurchase: dp("50.00")}
		assert.True(t, c.CalculateDiscount(d("49.99")).IsZero())
	})

	t.Run("at minimum purchase", func(t *testing.T) {
		c := Coupon{Type: DiscountTypePercentage, Value: d("10"), MinimumPurchase: dp("50.00")}
		assert.Equal(t, "5.00", c.CalculateDiscount(d("50.00")).StringFixed(2))
	})
}
