package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) FindByProductID(ctx context.Context, productID int64) (model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Inventory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// availableが足りるときだけ予約を積む。
// WHEREで判定まで済ませるので、同時に走っても売り越しにならない。
func (r *InventoryGormRepository) ReserveStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("qty must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ? AND quantity - reserved_quantity >= ?", productID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 予約解放（二重解放でも0で止める）
func (r *InventoryGormRepository) ReleaseStock(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Update("reserved_quantity", gorm.Expr("GREATEST(reserved_quantity - ?, 0)", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 出荷確定。on-handと予約を同時に減らす。
func (r *InventoryGormRepository) DeductStock(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("GREATEST(quantity - ?, 0)", qty),
			"reserved_quantity": gorm.Expr("GREATEST(reserved_quantity - ?, 0)", qty),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ即時に減算（予約を経ないチェックアウト用）
func (r *InventoryGormRepository) DeductStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("qty must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ? AND quantity - reserved_quantity >= ?", productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）
func (r *InventoryGormRepository) RestoreStock(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %d", qty)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) SetStock(ctx context.Context, productID int64, newStock int64) error {
	if newStock < 0 {
		return fmt.Errorf("stock must not be negative: %d", newStock)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Update("quantity", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}

func (r *InventoryGormRepository) ListLowStock(ctx context.Context) ([]model.Inventory, error) {
	var items []model.Inventory
	err := r.db.WithContext(ctx).
		Where("quantity - reserved_quantity <= low_stock_threshold").
		Order("product_id asc").
		Find(&items).Error
	if err != nil {
		return []model.Inventory{}, err
	}
	return items, nil
}
