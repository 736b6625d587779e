package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/domain/pricing"
	repo "app/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo     repo.ProductRepository
	inventoryRepo   repo.InventoryRepository
	marketPriceRepo repo.MarketPriceRepository
	saleRepo        repo.SaleRepository
	clock           Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	marketPriceRepo repo.MarketPriceRepository,
	saleRepo repo.SaleRepository,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:     productRepo,
		inventoryRepo:   inventoryRepo,
		marketPriceRepo: marketPriceRepo,
		saleRepo:        saleRepo,
		clock:           clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page         int
	Limit        int
	Q            string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
	FeaturedOnly bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Q:            strings.TrimSpace(in.Q),
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		Sort:         in.Sort,
		FeaturedOnly: in.FeaturedOnly,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 商品詳細。在庫の可用数とセール適用後価格も載せる。
type ProductDetailOutput struct {
	Product    model.Product    `json:"product"`
	Available  int64            `json:"available"`
	IsLowStock bool             `json:"is_low_stock"`
	SalePrice  *decimal.Decimal `json:"sale_price,omitempty"`
	ActiveSale string           `json:"active_sale,omitempty"`
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	out := ProductDetailOutput{Product: p}

	inv, err := u.inventoryRepo.FindByProductID(ctx, productID)
	if err == nil {
		out.Available = inv.Available()
		out.IsLowStock = inv.IsLowStock()
	} else if err != repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//有効なセールがあれば適用後価格を出す
	sales, err := u.saleRepo.ListForProduct(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if sale, ok := model.PickSale(sales, u.clock.Now()); ok {
		sp := sale.Apply(p.SellingPrice)
		out.SalePrice = &sp
		out.ActiveSale = sale.Name
	}

	return out, nil
}

// 管理者用：商品作成の入力
type CreateProductInput struct {
	SKU            string
	CardID         *int64
	Name           string
	Description    string
	Condition      string
	Language       string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	CompareAtPrice *decimal.Decimal
	IsActive       bool
	IsFeatured     bool

	InitialStock      int64
	LowStockThreshold int64
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.SKU) == "" || len(in.SKU) > 100 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid sku")
	}
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.CostPrice.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "cost_price must be >= 0")
	}
	if in.SellingPrice.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "selling_price must be >= 0")
	}
	if in.CompareAtPrice != nil && in.CompareAtPrice.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "compare_at_price must be >= 0")
	}
	if in.InitialStock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "initial_stock must be >= 0")
	}
	if in.LowStockThreshold < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "low_stock_threshold must be >= 0")
	}

	if _, err := u.productRepo.FindBySKU(ctx, strings.TrimSpace(in.SKU)); err == nil {
		return model.Product{}, NewHTTPError(http.StatusConflict, "sku already exists")
	} else if err != repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lang := in.Language
	if lang == "" {
		lang = "English"
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		SKU:            strings.TrimSpace(in.SKU),
		CardID:         in.CardID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Condition:      in.Condition,
		Language:       lang,
		CostPrice:      in.CostPrice,
		SellingPrice:   in.SellingPrice,
		CompareAtPrice: in.CompareAtPrice,
		IsActive:       in.IsActive,
		IsFeatured:     in.IsFeatured,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

type UpdateProductInput struct {
	Name           string
	Description    string
	Condition      string
	Language       string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	CompareAtPrice *decimal.Decimal
	IsActive       bool
	IsFeatured     bool
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.CompareAtPrice != nil && in.CompareAtPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "compare_at_price must be >= 0")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Condition = in.Condition
	if in.Language != "" {
		p.Language = in.Language
	}
	p.CostPrice = in.CostPrice
	p.SellingPrice = in.SellingPrice
	p.CompareAtPrice = in.CompareAtPrice
	p.IsActive = in.IsActive
	p.IsFeatured = in.IsFeatured

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type RepriceOutput struct {
	ProductID int64           `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// 仕入れ値＋直近の市場価格から売値を引き直す。
// 算出できないときは黙ってフォールバックせず、呼び出し側へ返す。
func (u *ProductUsecase) RepriceProduct(ctx context.Context, productID int64) (RepriceOutput, error) {
	if productID <= 0 {
		return RepriceOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return RepriceOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return RepriceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var market *decimal.Decimal
	mp, err := u.marketPriceRepo.FindByProductID(ctx, productID)
	if err == nil {
		market = &mp.Price
	} else if err != repo.ErrNotFound {
		return RepriceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	newPrice, err := pricing.Resolve(p.CostPrice, market)
	if err != nil {
		log.Warn().Err(err).Int64("product", productID).Msg("reprice: price unavailable")
		return RepriceOutput{}, NewHTTPError(http.StatusUnprocessableEntity, "pricing unavailable")
	}

	if err := u.productRepo.UpdateSellingPrice(ctx, productID, newPrice); err != nil {
		return RepriceOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return RepriceOutput{
		ProductID: productID,
		OldPrice:  p.SellingPrice,
		NewPrice:  newPrice,
	}, nil
}
