package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, id int64) (model.CartItem, error)
	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)

	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, qty int64) error
	Delete(ctx context.Context, id int64) error
}
