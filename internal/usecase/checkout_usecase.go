package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CheckoutUsecase はカートを注文へ確定する。
// 価格・在庫・クーポンの判定と凍結はすべて1トランザクション内で行い、
// 途中で落ちたら在庫もカウンタも元に戻る。
type CheckoutUsecase struct {
	tx            repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	couponRepo    repo.CouponRepository
	saleRepo      repo.SaleRepository
	shippingRepo  repo.ShippingRepository
	addressRepo   repo.AddressRepository
	clock         Clock
	idGen         IDGenerator
	notifier      Notifier
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	couponRepo repo.CouponRepository,
	saleRepo repo.SaleRepository,
	shippingRepo repo.ShippingRepository,
	addressRepo repo.AddressRepository,
	clock Clock,
	idGen IDGenerator,
	notifier Notifier,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		couponRepo:    couponRepo,
		saleRepo:      saleRepo,
		shippingRepo:  shippingRepo,
		addressRepo:   addressRepo,
		clock:         clock,
		idGen:         idGen,
		notifier:      notifier,
	}
}

type ShippingAddressInput struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO国コード
}

type PlaceOrderInput struct {
	ShippingMethodID int64 `json:"shipping_method_id"`

	//住所はインラインか、保存済み住所のIDのどちらか
	ShippingAddress ShippingAddressInput `json:"shipping_address"`
	AddressID       *int64               `json:"address_id"`

	CouponCode     string `json:"coupon_code"`
	IdempotencyKey string `json:"-"`
}

type PlaceOrderOutput struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`

	//同じidempotency keyの再送だったか
	Replayed bool `json:"-"`
}

type CheckoutPreviewInput struct {
	ShippingMethodID int64  `json:"shipping_method_id"`
	Country          string `json:"country"`
	CouponCode       string `json:"coupon_code"`
}

type CheckoutPreviewOutput struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	Total          decimal.Decimal `json:"total"`
	CouponReason   string          `json:"coupon_reason,omitempty"`
}

// クーポン判定理由をAPIメッセージへ
func couponReasonMessage(reason model.CouponReason) string {
	switch reason {
	case model.CouponInactive:
		return "coupon is inactive"
	case model.CouponNotYetValid:
		return "coupon is not yet valid"
	case model.CouponExpired:
		return "coupon has expired"
	case model.CouponUsageExhausted:
		return "coupon usage limit reached"
	case model.CouponNotForUser:
		return "coupon is not available for this user"
	case model.CouponPerUserLimit:
		return "coupon already used the maximum number of times"
	default:
		return "invalid coupon"
	}
}

func (u *CheckoutUsecase) validateInput(in PlaceOrderInput) error {
	if in.IdempotencyKey == "" {
		return NewHTTPError(http.StatusBadRequest, "missing Idempotency-Key header")
	}
	if in.ShippingMethodID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid shipping_method_id")
	}
	if in.AddressID != nil {
		return nil
	}
	a := in.ShippingAddress
	if a.Name == "" || a.Street == "" || a.City == "" || a.PostalCode == "" || a.Country == "" {
		return NewHTTPError(http.StatusBadRequest, "incomplete shipping address")
	}
	return nil
}

// 保存済み住所の指定があればそれを使う。他人の住所は404扱い。
func (u *CheckoutUsecase) resolveAddress(ctx context.Context, userID int64, in PlaceOrderInput) (ShippingAddressInput, error) {
	if in.AddressID == nil {
		return in.ShippingAddress, nil
	}
	a, err := u.addressRepo.FindByID(ctx, *in.AddressID)
	if err == repo.ErrNotFound {
		return ShippingAddressInput{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return ShippingAddressInput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if a.UserID != userID {
		return ShippingAddressInput{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	street := a.Street
	if a.Number != "" {
		street += " " + a.Number
	}
	return ShippingAddressInput{
		Name:       a.Name,
		Street:     street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}, nil
}

// PlaceOrder は注文確定。
// 再送（同一ユーザー×同一キー）は新しい注文を作らず前回の結果を返す。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validateInput(in); err != nil {
		return PlaceOrderOutput{}, err
	}
	addr, err := u.resolveAddress(ctx, userID, in)
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	now := u.clock.Now()
	var out PlaceOrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//再送チェック
		prev, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, in.IdempotencyKey)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, prev.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = PlaceOrderOutput{Order: prev, Items: items, Replayed: true}
			return nil
		}

		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		method, err := u.resolveShippingMethod(ctx, r.Shipping(), in.ShippingMethodID, addr.Country)
		if err != nil {
			return err
		}

		//明細ごとに価格を凍結し、在庫をガード付きで引き落とす
		subtotal := decimal.Zero
		weight := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusConflict, "product no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusConflict, "product no longer available")
			}

			unit := p.SellingPrice
			sales, err := r.Sales().ListForProduct(ctx, p.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if sale, ok := model.PickSale(sales, now); ok {
				unit = sale.Apply(unit)
			}
			if unit.LessThanOrEqual(decimal.Zero) {
				//価格が解決できない商品は売らない
				return NewHTTPError(http.StatusConflict, "pricing unavailable")
			}

			ok, err := r.Inventory().DeductStockIfAvailable(ctx, p.ID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, "out of stock: "+p.SKU)
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				ProductSKUSnapshot:  p.SKU,
				CostPriceSnapshot:   p.CostPrice,
				UnitPriceSnapshot:   unit,
				Quantity:            ci.Quantity,
			})
			subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(ci.Quantity)))
			weight = weight.Add(p.WeightKg.Mul(decimal.NewFromInt(ci.Quantity)))
		}

		//クーポン（判定・割引・カウンタ進行まで同一トランザクション）
		discount := decimal.Zero
		freeShipping := false
		var coupon *model.Coupon
		if in.CouponCode != "" {
			c, reason, err := u.checkCoupon(ctx, r.Coupons(), in.CouponCode, userID, now)
			if err != nil {
				return err
			}
			if reason != model.CouponValid {
				return NewHTTPError(http.StatusBadRequest, couponReasonMessage(reason))
			}
			discount = c.CalculateDiscount(subtotal)
			freeShipping = c.Type == model.DiscountTypeFreeShipping &&
				(c.MinimumPurchase == nil || subtotal.GreaterThanOrEqual(*c.MinimumPurchase))
			coupon = &c
		}

		shippingCost := method.CalculateCost(subtotal.Sub(discount), weight)
		if freeShipping {
			shippingCost = decimal.Zero
		}
		total := subtotal.Sub(discount).Add(shippingCost)

		order := model.Order{
			OrderNumber:        u.idGen.NewID(),
			UserID:             userID,
			Status:             model.OrderStatusPending,
			PaymentStatus:      model.PaymentStatusPending,
			ShippingName:       addr.Name,
			ShippingStreet:     addr.Street,
			ShippingCity:       addr.City,
			ShippingPostalCode: addr.PostalCode,
			ShippingCountry:    strings.ToUpper(addr.Country),
			Subtotal:           subtotal,
			ShippingCost:       shippingCost,
			DiscountAmount:     discount,
			Total:              total,
			CouponCode:         in.CouponCode,
			IdempotencyKey:     in.IdempotencyKey,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for i := range orderItems {
			orderItems[i].OrderID = orderID
		}

		if err := r.OrderStatusHistory().Create(ctx, model.OrderStatusHistory{
			OrderID: orderID,
			Status:  model.OrderStatusPending,
			Notes:   "order placed",
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Shipping().CreateRate(ctx, model.ShippingRate{
			OrderID:          orderID,
			ShippingMethodID: method.ID,
			Cost:             shippingCost,
			WeightKg:         weight,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Payments().Create(ctx, model.Payment{
			TransactionID: u.idGen.NewID(),
			OrderID:       orderID,
			UserID:        userID,
			Amount:        total,
			Status:        model.PaymentStatusPending,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if coupon != nil {
			ok, err := r.Coupons().IncrementUsageIfAvailable(ctx, coupon.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				//直前に他の注文で上限到達。ロールバックで在庫も戻る。
				return NewHTTPError(http.StatusBadRequest, couponReasonMessage(model.CouponUsageExhausted))
			}
			if err := r.Coupons().CreateUsage(ctx, model.CouponUsage{
				CouponID:       coupon.ID,
				UserID:         userID,
				OrderID:        orderID,
				DiscountAmount: discount,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PlaceOrderOutput{Order: order, Items: orderItems}
		return nil
	})
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	if !out.Replayed {
		u.notifier.OrderConfirmed(ctx, OrderConfirmedEvent{
			OrderID:     out.Order.ID,
			OrderNumber: out.Order.OrderNumber,
			Recipient:   out.Order.ShippingName,
			Total:       out.Order.Total.StringFixed(2),
		})
		u.notifyLowStock(ctx, out.Items)
	}
	return out, nil
}

// Preview は確定前の見積り。何も書き換えない。
func (u *CheckoutUsecase) Preview(ctx context.Context, userID int64, in CheckoutPreviewInput) (CheckoutPreviewOutput, error) {
	if userID <= 0 {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ShippingMethodID <= 0 || in.Country == "" {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping parameters")
	}

	now := u.clock.Now()

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if err != nil {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return CheckoutPreviewOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	method, err := u.resolveShippingMethod(ctx, u.shippingRepo, in.ShippingMethodID, in.Country)
	if err != nil {
		return CheckoutPreviewOutput{}, err
	}

	subtotal := decimal.Zero
	weight := decimal.Zero
	for _, ci := range cartItems {
		p, err := u.productRepo.FindByID(ctx, ci.ProductID)
		if err == repo.ErrNotFound {
			return CheckoutPreviewOutput{}, NewHTTPError(http.StatusConflict, "product no longer available")
		}
		if err != nil {
			return CheckoutPreviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			//確定時に拒否される明細は見積りでも通さない
			return CheckoutPreviewOutput{}, NewHTTPError(http.StatusConflict, "product no longer available")
		}

		unit := p.SellingPrice
		sales, err := u.saleRepo.ListForProduct(ctx, p.ID)
		if err != nil {
			return CheckoutPreviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if sale, ok := model.PickSale(sales, now); ok {
			unit = sale.Apply(unit)
		}
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(ci.Quantity)))
		weight = weight.Add(p.WeightKg.Mul(decimal.NewFromInt(ci.Quantity)))
	}

	out := CheckoutPreviewOutput{Subtotal: subtotal, DiscountAmount: decimal.Zero}
	freeShipping := false
	if in.CouponCode != "" {
		c, reason, err := u.checkCoupon(ctx, u.couponRepo, in.CouponCode, userID, now)
		if err != nil {
			return CheckoutPreviewOutput{}, err
		}
		out.CouponReason = string(reason)
		if reason == model.CouponValid {
			out.DiscountAmount = c.CalculateDiscount(subtotal)
			freeShipping = c.Type == model.DiscountTypeFreeShipping &&
				(c.MinimumPurchase == nil || subtotal.GreaterThanOrEqual(*c.MinimumPurchase))
		}
	}

	out.ShippingCost = method.CalculateCost(subtotal.Sub(out.DiscountAmount), weight)
	if freeShipping {
		out.ShippingCost = decimal.Zero
	}
	out.Total = subtotal.Sub(out.DiscountAmount).Add(out.ShippingCost)
	return out, nil
}

// CancelOrder は本人のPENDING注文のみ取り消し、在庫を戻す。
func (u *CheckoutUsecase) CancelOrder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	now := u.clock.Now()

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusConflict, "order can no longer be canceled")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			if err := r.Inventory().RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return r.OrderStatusHistory().Create(ctx, model.OrderStatusHistory{
			OrderID:     orderID,
			Status:      model.OrderStatusCanceled,
			Notes:       "canceled by customer",
			CreatedByID: &userID,
		})
	})
}

// 指定の配送方法が有効で、配送先の国をカバーするゾーンに属するか
func (u *CheckoutUsecase) resolveShippingMethod(ctx context.Context, shipping repo.ShippingRepository, methodID int64, country string) (model.ShippingMethod, error) {
	method, err := shipping.FindMethodByID(ctx, methodID)
	if err == repo.ErrNotFound {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, "shipping method not available")
	}
	if err != nil {
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !method.IsActive {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, "shipping method not available")
	}

	zone, err := shipping.FindZoneByCountry(ctx, strings.ToUpper(country))
	if err == repo.ErrNotFound {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, "no shipping to this country")
	}
	if err != nil {
		return model.ShippingMethod{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if method.ZoneID != zone.ID {
		return model.ShippingMethod{}, NewHTTPError(http.StatusBadRequest, "shipping method not available")
	}
	return method, nil
}

// クーポンの有効性判定。期間・回数・allowlist・ユーザー上限の順。
func (u *CheckoutUsecase) checkCoupon(ctx context.Context, coupons repo.CouponRepository, code string, userID int64, now time.Time) (model.Coupon, model.CouponReason, error) {
	c, err := coupons.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return model.Coupon{}, "", NewHTTPError(http.StatusNotFound, "coupon not found")
	}
	if err != nil {
		return model.Coupon{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if reason := c.Validate(now); reason != model.CouponValid {
		return c, reason, nil
	}

	hasAllowlist, allowed, err := coupons.UserAllowlist(ctx, c.ID, userID)
	if err != nil {
		return model.Coupon{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if hasAllowlist && !allowed {
		return c, model.CouponNotForUser, nil
	}

	if c.UsageLimitPerUser != nil {
		used, err := coupons.CountUsageByUser(ctx, c.ID, userID)
		if err != nil {
			return model.Coupon{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if used >= *c.UsageLimitPerUser {
			return c, model.CouponPerUserLimit, nil
		}
	}

	return c, model.CouponValid, nil
}

// 低在庫になった商品があれば通知する（失敗しても注文には影響しない）
func (u *CheckoutUsecase) notifyLowStock(ctx context.Context, items []model.OrderItem) {
	seen := map[int64]bool{}
	for _, it := range items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true

		inv, err := u.inventoryRepo.FindByProductID(ctx, it.ProductID)
		if err != nil {
			if err != repo.ErrNotFound {
				log.Warn().Err(err).Int64("product_id", it.ProductID).Msg("low stock check failed")
			}
			continue
		}
		if !inv.IsLowStock() {
			continue
		}
		u.notifier.LowStock(ctx, LowStockEvent{
			ProductID: it.ProductID,
			SKU:       it.ProductSKUSnapshot,
			Name:      it.ProductNameSnapshot,
			Available: inv.Available(),
			Threshold: inv.LowStockThreshold,
		})
	}
}
