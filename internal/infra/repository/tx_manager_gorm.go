package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders             repo.OrderRepository
	orderItems         repo.OrderItemRepository
	orderStatusHistory repo.OrderStatusHistoryRepository
	carts              repo.CartRepository
	cartItems          repo.CartItemRepository
	inventory          repo.InventoryRepository
	products           repo.ProductRepository
	coupons            repo.CouponRepository
	sales              repo.SaleRepository
	shipping           repo.ShippingRepository
	payments           repo.PaymentRepository
	marketPrices       repo.MarketPriceRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository                 { return r.orderItems }
func (r *txReposGorm) OrderStatusHistory() repo.OrderStatusHistoryRepository { return r.orderStatusHistory }
func (r *txReposGorm) Carts() repo.CartRepository                           { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository                   { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository                  { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository                     { return r.products }
func (r *txReposGorm) Coupons() repo.CouponRepository                       { return r.coupons }
func (r *txReposGorm) Sales() repo.SaleRepository                           { return r.sales }
func (r *txReposGorm) Shipping() repo.ShippingRepository                    { return r.shipping }
func (r *txReposGorm) Payments() repo.PaymentRepository                     { return r.payments }
func (r *txReposGorm) MarketPrices() repo.MarketPriceRepository             { return r.marketPrices }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:             NewOrderGormRepository(tx),
			orderItems:         NewOrderItemGormRepository(tx),
			orderStatusHistory: NewOrderStatusHistoryGormRepository(tx),
			carts:              NewCartGormRepository(tx),
			cartItems:          NewCartItemGormRepository(tx),
			inventory:          NewInventoryGormRepository(tx),
			products:           NewProductGormRepository(tx),
			coupons:            NewCouponGormRepository(tx),
			sales:              NewSaleGormRepository(tx),
			shipping:           NewShippingGormRepository(tx),
			payments:           NewPaymentGormRepository(tx),
			marketPrices:       NewMarketPriceGormRepository(tx),
		}
		return fn(r)
	})
}
