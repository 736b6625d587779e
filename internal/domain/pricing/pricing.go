package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// 価格が算出できない場合は黙ってコスト値を返さず、このエラーを返す。
// ブロックするかフォールバックするかは呼び出し側（チェックアウト等）が決める。
var ErrPriceUnavailable = errors.New("price unavailable")

var (
	//仕入れ値に対する最低マークアップ（25%）
	markupFactor = decimal.NewFromFloat(1.25)

	//市場価格への追従率（市場の95%を下回らない）
	marketFactor = decimal.NewFromFloat(0.95)
)

// Resolve は仕入れ値と直近の市場価格から販売価格を決める。
//   - 市場価格なし: cost * 1.25
//   - 市場価格あり: max(cost * 1.25, market * 0.95)
//
// 丸めは通貨精度（小数2桁、half-up）。
func Resolve(cost decimal.Decimal, market *decimal.Decimal) (decimal.Decimal, error) {
	if cost.IsNegative() {
		return decimal.Zero, ErrPriceUnavailable
	}
	if market != nil && market.IsNegative() {
		return decimal.Zero, ErrPriceUnavailable
	}
	if cost.IsZero() && market == nil {
		//原価も市場価格も無い商品は値付けできない
		return decimal.Zero, ErrPriceUnavailable
	}

	candidate := cost.Mul(markupFactor)
	if market != nil {
		if floor := market.Mul(marketFactor); floor.GreaterThan(candidate) {
			candidate = floor
		}
	}

	return candidate.Round(2), nil
}
