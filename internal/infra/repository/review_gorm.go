package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *ReviewGormRepository) FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (r *ReviewGormRepository) ListApproved(ctx context.Context, productID int64, page int, limit int) ([]model.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Review{}, 0, err
	}

	var reviews []model.Review
	offset := (page - 1) * limit
	if err := q.Order("helpful_count desc").Order("id desc").
		Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return []model.Review{}, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewGormRepository) IncrementHelpful(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", reviewID).
		Update("helpful_count", gorm.Expr("helpful_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
