package pricing

import (
	"testing"

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

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		cost   decimal.Decimal
		market *decimal.Decimal
		want   string
	}{
		//市場価格なし：仕入れ値×1.25
		{"no market", d("10.00"), nil, "12.50"},
		//市場価格が高い：市場×0.95へ引き上がる
		{"market raises price", d("10.00"), dp("20.00"), "19.00"},
		//市場×0.95がマークアップを下回る：マークアップが下限
		{"markup is the floor", d("10.00"), dp("11.00"), "12.50"},
		//境界：market*0.95 == cost*1.25
		{"boundary equal", d("10.00"), dp("13.157894736842105263"), "12.50"},
		{"rounds half up", d("3.33"), nil, "4.16"},
		{"small cost", d("0.10"), nil, "0.13"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.cost, tc.market)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestResolve_Unavailable(t *testing.T) {
	//仕入れ値ゼロで市場価格も無ければ算出不能
	_, err := Resolve(decimal.Zero, nil)
	assert.ErrorIs(t, err, ErrPriceUnavailable)

	//負の仕入れ値
	_, err = Resolve(d("-1.00"), nil)
	assert.ErrorIs(t, err, ErrPriceUnavailable)

	//負の市場価格
	_, err = Resolve(d("10.00"), dp("-5.00"))
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestResolve_ZeroCostWithMarket(t *testing.T) {
	//仕入れ値ゼロでも市場価格があれば market*0.95
	got, err := Resolve(decimal.Zero, dp("10.00"))
	assert.NoError(t, err)
	assert.Equal(t, "9.50", got.StringFixed(2))
}
