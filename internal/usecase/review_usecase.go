package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ReviewUsecase は商品レビュー。購入確認（verified purchase）は
// 配達済み注文に当該商品が含まれるかで判定する。
type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
	orderRepo   repo.OrderRepository
}

func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

type CreateReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type ReviewListOutput struct {
	Reviews []model.Review `json:"reviews"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid title")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "product not found")
	} else if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//1商品1ユーザー1件
	if _, err := u.reviewRepo.FindByProductAndUser(ctx, productID, userID); err == nil {
		return model.Review{}, NewHTTPError(http.StatusConflict, "already reviewed")
	} else if err != repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	verified, err := u.orderRepo.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID:          productID,
		UserID:             userID,
		Rating:             in.Rating,
		Title:              title,
		Comment:            strings.TrimSpace(in.Comment),
		IsVerifiedPurchase: verified,
		IsApproved:         true,
	})
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ReviewUsecase) ListReviews(ctx context.Context, productID int64, page int, limit int) (ReviewListOutput, error) {
	if productID <= 0 {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	reviews, total, err := u.reviewRepo.ListApproved(ctx, productID, page, limit)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ReviewListOutput{Reviews: reviews, Total: total, Page: page, Limit: limit}, nil
}

func (u *ReviewUsecase) MarkHelpful(ctx context.Context, reviewID int64) error {
	if reviewID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	err := u.reviewRepo.IncrementHelpful(ctx, reviewID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
