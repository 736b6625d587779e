package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	OrderStatusHistory() OrderStatusHistoryRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	Coupons() CouponRepository
	Sales() SaleRepository
	Shipping() ShippingRepository
	Payments() PaymentRepository
	MarketPrices() MarketPriceRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
