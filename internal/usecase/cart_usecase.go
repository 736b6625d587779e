package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
// 明細は追加時点の価格（unit_price_snapshot）を必ず保存する。
type CartUsecase struct {
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildResponse(ctx, cart.ID)
}

func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity <= 0 || in.Quantity > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//既存明細があれば数量を足す
	existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, in.ProductID)
	newQty := in.Quantity
	if err == nil {
		newQty = existing.Quantity + in.Quantity
	} else if err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カート時点ではavailableに対する軽いチェックだけ。確定時に再チェックする。
	inv, err := u.inventoryRepo.FindByProductID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "out of stock")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if inv.Available() < newQty {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "out of stock")
	}

	if existing.ID != 0 {
		if err := u.cartItemRepo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else {
		_, err := u.cartItemRepo.Create(ctx, model.CartItem{
			CartID:            cart.ID,
			ProductID:         in.ProductID,
			Quantity:          in.Quantity,
			UnitPriceSnapshot: p.SellingPrice,
		})
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildResponse(ctx, cart.ID)
}

func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, itemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity <= 0 || in.Quantity > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, item, err := u.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return CartResponse{}, err
	}

	inv, err := u.inventoryRepo.FindByProductID(ctx, item.ProductID)
	if err == nil && inv.Available() < in.Quantity {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "out of stock")
	}
	if err != nil && err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, item.ID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildResponse(ctx, cart.ID)
}

func (u *CartUsecase) DeleteItem(ctx context.Context, userID int64, itemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cart, item, err := u.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItemRepo.Delete(ctx, item.ID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildResponse(ctx, cart.ID)
}

// 自分のACTIVEカートの明細だけ触れる
func (u *CartUsecase) findOwnedItem(ctx context.Context, userID int64, itemID int64) (model.Cart, model.CartItem, error) {
	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.CartID != cart.ID {
		//他人の明細は「存在しない扱い」
		return model.Cart{}, model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return cart, item, nil
}

func (u *CartUsecase) buildResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartResponse{Items: make([]CartItemResponse, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		name := ""
		if p, err := u.productRepo.FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
		}
		out.Items = append(out.Items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
		out.Total = out.Total.Add(it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return out, nil
}
