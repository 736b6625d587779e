package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// InventoryUsecase は管理者向けの在庫操作。
// 手動調整は必ず調整履歴（誰が・いくつ・なぜ）を残す。
type InventoryUsecase struct {
	inventoryRepo repo.InventoryRepository
	productRepo   repo.ProductRepository
	clock         Clock
}

func NewInventoryUsecase(
	inventoryRepo repo.InventoryRepository,
	productRepo repo.ProductRepository,
	clock Clock,
) *InventoryUsecase {
	return &InventoryUsecase{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		clock:         clock,
	}
}

type AdjustStockInput struct {
	Quantity int64  `json:"quantity"` // 設定後のon-hand
	Reason   string `json:"reason"`
}

type StockOutput struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
	Reserved   int64 `json:"reserved"`
	Available  int64 `json:"available"`
	IsLowStock bool  `json:"is_low_stock"`
}

type LowStockRow struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Available int64  `json:"available"`
	Threshold int64  `json:"threshold"`
}

// AdjustStock はon-handを指定値へ設定し、差分を履歴に残す。
func (u *InventoryUsecase) AdjustStock(ctx context.Context, adminUserID int64, productID int64, in AdjustStockInput) (StockOutput, error) {
	if adminUserID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must not be negative")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err == repo.ErrNotFound {
		return StockOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	} else if err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before, err := u.inventoryRepo.FindByProductID(ctx, productID)
	if err == repo.ErrNotFound {
		return StockOutput{}, NewHTTPError(http.StatusNotFound, "inventory not found")
	}
	if err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.SetStock(ctx, productID, in.Quantity); err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID:   productID,
		AdminUserID: adminUserID,
		Delta:       in.Quantity - before.Quantity,
		Reason:      reason,
	}); err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	after, err := u.inventoryRepo.FindByProductID(ctx, productID)
	if err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return StockOutput{
		ProductID:  productID,
		Quantity:   after.Quantity,
		Reserved:   after.ReservedQuantity,
		Available:  after.Available(),
		IsLowStock: after.IsLowStock(),
	}, nil
}

func (u *InventoryUsecase) GetStock(ctx context.Context, productID int64) (StockOutput, error) {
	if productID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	inv, err := u.inventoryRepo.FindByProductID(ctx, productID)
	if err == repo.ErrNotFound {
		return StockOutput{}, NewHTTPError(http.StatusNotFound, "inventory not found")
	}
	if err != nil {
		return StockOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return StockOutput{
		ProductID:  productID,
		Quantity:   inv.Quantity,
		Reserved:   inv.ReservedQuantity,
		Available:  inv.Available(),
		IsLowStock: inv.IsLowStock(),
	}, nil
}

// LowStockReport は閾値を割った商品の一覧。
func (u *InventoryUsecase) LowStockReport(ctx context.Context) ([]LowStockRow, error) {
	lows, err := u.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows := make([]LowStockRow, 0, len(lows))
	for _, inv := range lows {
		row := LowStockRow{
			ProductID: inv.ProductID,
			Available: inv.Available(),
			Threshold: inv.LowStockThreshold,
		}
		if p, err := u.productRepo.FindByID(ctx, inv.ProductID); err == nil {
			row.SKU = p.SKU
			row.Name = p.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}
