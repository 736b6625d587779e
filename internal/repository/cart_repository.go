package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)

	// ACTIVEカートを取得、無ければ作成（同時アクセスに耐える）
	GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error

	// 明細の全削除
	Clear(ctx context.Context, cartID int64) error
}
