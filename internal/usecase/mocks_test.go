package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパー
// =====================

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

func i64(v int64) *int64 { return &v }

func assertHTTPError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, status, he.Status)
	assert.Contains(t, he.Message, contains)
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return "id-" + string(rune('0'+g.n))
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderConfirmed(ctx context.Context, ev usecase.OrderConfirmedEvent) {
	m.Called(ctx, ev)
}
func (m *NotifierMock) PaymentFailed(ctx context.Context, ev usecase.PaymentFailedEvent) {
	m.Called(ctx, ev)
}
func (m *NotifierMock) LowStock(ctx context.Context, ev usecase.LowStockEvent) {
	m.Called(ctx, ev)
}

type nopNotifier struct{}

func (nopNotifier) OrderConfirmed(context.Context, usecase.OrderConfirmedEvent) {}
func (nopNotifier) PaymentFailed(context.Context, usecase.PaymentFailedEvent)   {}
func (nopNotifier) LowStock(context.Context, usecase.LowStockEvent)             {}

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByCardID(ctx context.Context, cardID int64) ([]model.Product, error) {
	args := m.Called(ctx, cardID)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateSellingPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) FindByProductID(ctx context.Context, productID int64) (model.Inventory, error) {
	args := m.Called(ctx, productID)
	inv, _ := args.Get(0).(model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryRepoMock) ReserveStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) ReleaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) DeductStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) DeductStockIfAvailable(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) RestoreStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *InventoryRepoMock) ListLowStock(ctx context.Context) ([]model.Inventory, error) {
	args := m.Called(ctx)
	lows, _ := args.Get(0).([]model.Inventory)
	return lows, args.Error(1)
}

type MarketPriceRepoMock struct{ mock.Mock }

func (m *MarketPriceRepoMock) FindByProductID(ctx context.Context, productID int64) (model.MarketPrice, error) {
	args := m.Called(ctx, productID)
	mp, _ := args.Get(0).(model.MarketPrice)
	return mp, args.Error(1)
}

func (m *MarketPriceRepoMock) Upsert(ctx context.Context, mp model.MarketPrice) error {
	args := m.Called(ctx, mp)
	return args.Error(0)
}

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) ListForProduct(ctx context.Context, productID int64) ([]model.Sale, error) {
	args := m.Called(ctx, productID)
	sales, _ := args.Get(0).([]model.Sale)
	return sales, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	created, _ := args.Get(0).(model.CartItem)
	return created, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, id int64, qty int64) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, at time.Time) error {
	args := m.Called(ctx, orderID, status, at)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) HasDeliveredProduct(ctx context.Context, userID int64, productID int64) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderStatusHistoryRepoMock struct{ mock.Mock }

func (m *OrderStatusHistoryRepoMock) Create(ctx context.Context, h model.OrderStatusHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *OrderStatusHistoryRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	hs, _ := args.Get(0).([]model.OrderStatusHistory)
	return hs, args.Error(1)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) IncrementUsageIfAvailable(ctx context.Context, couponID int64) (bool, error) {
	args := m.Called(ctx, couponID)
	return args.Bool(0), args.Error(1)
}

func (m *CouponRepoMock) UserAllowlist(ctx context.Context, couponID int64, userID int64) (bool, bool, error) {
	args := m.Called(ctx, couponID, userID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *CouponRepoMock) CountUsageByUser(ctx context.Context, couponID int64, userID int64) (int64, error) {
	args := m.Called(ctx, couponID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CouponRepoMock) CreateUsage(ctx context.Context, usage model.CouponUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

type ShippingRepoMock struct{ mock.Mock }

func (m *ShippingRepoMock) FindZoneByCountry(ctx context.Context, countryCode string) (model.ShippingZone, error) {
	args := m.Called(ctx, countryCode)
	z, _ := args.Get(0).(model.ShippingZone)
	return z, args.Error(1)
}

func (m *ShippingRepoMock) ListMethodsByZone(ctx context.Context, zoneID int64) ([]model.ShippingMethod, error) {
	args := m.Called(ctx, zoneID)
	ms, _ := args.Get(0).([]model.ShippingMethod)
	return ms, args.Error(1)
}

func (m *ShippingRepoMock) FindMethodByID(ctx context.Context, id int64) (model.ShippingMethod, error) {
	args := m.Called(ctx, id)
	sm, _ := args.Get(0).(model.ShippingMethod)
	return sm, args.Error(1)
}

func (m *ShippingRepoMock) CreateRate(ctx context.Context, rate model.ShippingRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	created, _ := args.Get(0).(model.Address)
	return created, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	as, _ := args.Get(0).([]model.Address)
	return as, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (model.Payment, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Payment)
	return created, args.Error(1)
}

func (m *PaymentRepoMock) FindByTransactionID(ctx context.Context, txID string) (model.Payment, error) {
	args := m.Called(ctx, txID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error) {
	args := m.Called(ctx, orderID)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

func (m *PaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, completedAt *time.Time) error {
	args := m.Called(ctx, paymentID, status, completedAt)
	return args.Error(0)
}

// =====================
// TxManager fake
// =====================

// 本物のトランザクションは張らず、同じmock群をそのまま渡す。
// fnがエラーを返したらロールバック相当（何も確定しない）として扱う。
type txReposFake struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	history   *OrderStatusHistoryRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	inventory *InventoryRepoMock
	products  *ProductRepoMock
	coupons   *CouponRepoMock
	sales     *SaleRepoMock
	shipping  *ShippingRepoMock
	payments  *PaymentRepoMock
	prices    *MarketPriceRepoMock
}

func (f *txReposFake) Orders() repo.OrderRepository                   { return f.orders }
func (f *txReposFake) OrderItems() repo.OrderItemRepository           { return f.items }
func (f *txReposFake) OrderStatusHistory() repo.OrderStatusHistoryRepository {
	return f.history
}
func (f *txReposFake) Carts() repo.CartRepository             { return f.carts }
func (f *txReposFake) CartItems() repo.CartItemRepository     { return f.cartItems }
func (f *txReposFake) Inventory() repo.InventoryRepository    { return f.inventory }
func (f *txReposFake) Products() repo.ProductRepository       { return f.products }
func (f *txReposFake) Coupons() repo.CouponRepository         { return f.coupons }
func (f *txReposFake) Sales() repo.SaleRepository             { return f.sales }
func (f *txReposFake) Shipping() repo.ShippingRepository      { return f.shipping }
func (f *txReposFake) Payments() repo.PaymentRepository       { return f.payments }
func (f *txReposFake) MarketPrices() repo.MarketPriceRepository { return f.prices }

type txManagerFake struct {
	repos *txReposFake
}

func (t *txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}
