package repository

import (
	"context"

	"app/internal/domain/model"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (model.Coupon, error)

	// usage_limit未満のときだけカウンタを進める。到達済みならfalse。
	// 注文作成と同一トランザクションで呼ぶこと。
	IncrementUsageIfAvailable(ctx context.Context, couponID int64) (bool, error)

	// allowlistの有無と、当該ユーザーが載っているか
	UserAllowlist(ctx context.Context, couponID int64, userID int64) (hasAllowlist bool, allowed bool, err error)

	// このユーザーの利用回数
	CountUsageByUser(ctx context.Context, couponID int64, userID int64) (int64, error)

	CreateUsage(ctx context.Context, usage model.CouponUsage) error
}

type SaleRepository interface {
	// productに適用されうるセール（全商品対象を含む）。有効期間の絞り込みは呼び出し側。
	ListForProduct(ctx context.Context, productID int64) ([]model.Sale, error)
}
