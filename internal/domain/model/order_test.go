package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderItemTotalPrice(t *testing.T) {
	it := OrderItem{UnitPriceSnapshot: d("12.50"), Quantity: 3}
	assert.Equal(t, "37.50", it.TotalPrice().StringFixed(2))
}

func TestOrderItemProfit(t *testing.T) {
	it := OrderItem{
		CostPriceSnapshot: d("10.00"),
		UnitPriceSnapshot: d("12.50"),
		Quantity:          4,
	}
	assert.Equal(t, "10.00", it.Profit().StringFixed(2))

	//赤字販売も凍結値のままマイナスで出る
	it.UnitPriceSnapshot = d("9.00")
	assert.Equal(t, "-4.00", it.Profit().StringFixed(2))
}

func TestOrderItemsSubtotal(t *testing.T) {
	items := []OrderItem{
		{UnitPriceSnapshot: d("12.50"), Quantity: 2},
		{UnitPriceSnapshot: d("3.25"), Quantity: 1},
	}
	assert.Equal(t, "28.25", OrderItemsSubtotal(items).StringFixed(2))
	assert.True(t, OrderItemsSubtotal(nil).IsZero())
}

func TestOrderItemsProfit(t *testing.T) {
	items := []OrderItem{
		{CostPriceSnapshot: d("10.00"), UnitPriceSnapshot: d("12.50"), Quantity: 2},
		{CostPriceSnapshot: d("2.00"), UnitPriceSnapshot: d("3.25"), Quantity: 1},
	}
	assert.Equal(t, "6.25", OrderItemsProfit(items).StringFixed(2))
}
