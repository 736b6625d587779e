package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func cardWithPrices(prices map[string]apiTCGPlayerPricing) apiCard {
	var c apiCard
	c.TCGPlayer.Prices = prices
	return c
}

func fp(v float64) *float64 { return &v }

func TestMarketPrice(t *testing.T) {
	t.Run("prefers holofoil", func(t *testing.T) {
		c := cardWithPrices(map[string]apiTCGPlayerPricing{
			"normal":   {Market: fp(5.00)},
			"holofoil": {Market: fp(12.34)},
		})
		got := marketPrice(c)
		if assert.NotNil(t, got) {
			assert.Equal(t, "12.34", got.StringFixed(2))
		}
	})

	t.Run("falls back to normal", func(t *testing.T) {
		c := cardWithPrices(map[string]apiTCGPlayerPricing{
			"normal":          {Market: fp(5.005)},
			"reverseHolofoil": {Market: fp(9.99)},
		})
		got := marketPrice(c)
		if assert.NotNil(t, got) {
			//半分は切り上げ
			assert.Equal(t, "5.01", got.StringFixed(2))
		}
	})

	t.Run("any variant as last resort", func(t *testing.T) {
		c := cardWithPrices(map[string]apiTCGPlayerPricing{
			"1stEditionHolofoil": {Market: fp(100)},
		})
		got := marketPrice(c)
		if assert.NotNil(t, got) {
			assert.Equal(t, "100.00", got.StringFixed(2))
		}
	})

	t.Run("nil when no market values", func(t *testing.T) {
		c := cardWithPrices(map[string]apiTCGPlayerPricing{
			"normal": {Mid: fp(5.00)},
		})
		assert.Nil(t, marketPrice(c))

		assert.Nil(t, marketPrice(cardWithPrices(nil)))
	})
}

func TestIsHoloVariant(t *testing.T) {
	assert.True(t, isHoloVariant(cardWithPrices(map[string]apiTCGPlayerPricing{
		"holofoil": {},
	})))

	c := cardWithPrices(nil)
	c.Rarity = "Rare Holo"
	assert.True(t, isHoloVariant(c))

	c.Rarity = "Common"
	assert.False(t, isHoloVariant(c))
}

func TestReleaseYear(t *testing.T) {
	assert.Equal(t, 2020, releaseYear("2020/11/13"))
	assert.Equal(t, 0, releaseYear(""))
	assert.Equal(t, 0, releaseYear("n/a"))
}

func TestClientRetriesTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"base1","name":"Base","series":"Base","releaseDate":"1999/01/09"}],"totalCount":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.baseDelay = time.Millisecond

	sets, total, err := c.ListSets(context.Background(), 1, 250)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	if assert.Len(t, sets, 1) {
		assert.Equal(t, "base1", sets[0].ID)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.baseDelay = time.Millisecond

	_, _, err := c.ListSets(context.Background(), 1, 250)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.baseDelay = time.Millisecond
	c.maxRetries = 2

	_, _, err := c.ListSets(context.Background(), 1, 250)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
