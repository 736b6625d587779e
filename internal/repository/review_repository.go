package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.Review, error)
	ListApproved(ctx context.Context, productID int64, page int, limit int) ([]model.Review, int64, error)
	IncrementHelpful(ctx context.Context, reviewID int64) error
}
