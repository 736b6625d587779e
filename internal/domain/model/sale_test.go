package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaleApply(t *testing.T) {
	s := Sale{DiscountPercentage: d("20")}
	assert.Equal(t, "8.00", s.Apply(d("10.00")).StringFixed(2))

	// 9.99 * 0.85 = 8.4915 -> 8.49
	s = Sale{DiscountPercentage: d("15")}
	assert.Equal(t, "8.49", s.Apply(d("9.99")).StringFixed(2))

	s = Sale{DiscountPercentage: d("0")}
	assert.Equal(t, "10.00", s.Apply(d("10.00")).StringFixed(2))

	s = Sale{DiscountPercentage: d("100")}
	assert.True(t, s.Apply(d("10.00")).IsZero())
}

func TestSaleIsValid(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	s := Sale{IsActive: true, ValidFrom: now.Add(-time.Hour), ValidUntil: now.Add(time.Hour)}
	assert.True(t, s.IsValid(now))

	s.IsActive = false
	assert.False(t, s.IsValid(now))

	s = Sale{IsActive: true, ValidFrom: now.Add(time.Hour), ValidUntil: now.Add(2 * time.Hour)}
	assert.False(t, s.IsValid(now))

	s = Sale{IsActive: true, ValidFrom: now.Add(-2 * time.Hour), ValidUntil: now.Add(-time.Hour)}
	assert.False(t, s.IsValid(now))

	//境界は含む
	s = Sale{IsActive: true, ValidFrom: now, ValidUntil: now}
	assert.True(t, s.IsValid(now))
}

func TestPickSale(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	valid := func(priority int, name string) Sale {
		return Sale{
			Name:               name,
			IsActive:           true,
			ValidFrom:          now.Add(-time.Hour),
			ValidUntil:         now.Add(time.Hour),
			Priority:           priority,
			DiscountPercentage: d("10"),
		}
	}

	t.Run("none", func(t *testing.T) {
		_, found := PickSale(nil, now)
		assert.False(t, found)
	})

	t.Run("highest priority wins", func(t *testing.T) {
		sales := []Sale{valid(1, "low"), valid(5, "high"), valid(3, "mid")}
		best, found := PickSale(sales, now)
		assert.True(t, found)
		assert.Equal(t, "high", best.Name)
	})

	t.Run("expired sales ignored", func(t *testing.T) {
		expired := valid(10, "expired")
		expired.ValidUntil = now.Add(-time.Minute)
		sales := []Sale{expired, valid(1, "live")}
		best, found := PickSale(sales, now)
		assert.True(t, found)
		assert.Equal(t, "live", best.Name)
	})

	//同priorityは先勝ち
	t.Run("ties keep first", func(t *testing.T) {
		sales := []Sale{valid(2, "first"), valid(2, "second")}
		best, found := PickSale(sales, now)
		assert.True(t, found)
		assert.Equal(t, "first", best.Name)
	})
}
