package repository

import (
	"context"

	"app/internal/domain/model"
)

// 在庫台帳。reserve/release/deductはすべて1文のガード付きUPDATEで行い、
// 同時チェックアウトが競合しても負数や売り越しを作らない。
type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID int64) (model.Inventory, error)

	// availableが足りるときだけ予約。足りなければfalse（状態は不変）。
	ReserveStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error)

	// 予約解放。二重解放されても0で止まる。
	ReleaseStock(ctx context.Context, productID int64, qty int64) error

	// 出荷確定。on-handと予約を同時に減らす（それぞれ0で止まる）。
	DeductStock(ctx context.Context, productID int64, qty int64) error

	// 予約を経ない即時販売向け。available >= qty のときだけ減算。
	DeductStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error)

	// キャンセル等での在庫戻し
	RestoreStock(ctx context.Context, productID int64, qty int64) error

	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error

	// available <= low_stock_threshold の一覧
	ListLowStock(ctx context.Context) ([]model.Inventory, error)
}
