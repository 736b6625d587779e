package repository

import (
	"context"

	"app/internal/domain/model"
)

// 配送先住所の保存・取得
type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)

	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)

	FindByID(ctx context.Context, addressID int64) (model.Address, error)

	Update(ctx context.Context, address model.Address) error

	Delete(ctx context.Context, addressID int64) error

	//userIDのデフォルト住所をaddressIDへ切り替える
	SetDefault(ctx context.Context, userID int64, addressID int64) error
}
