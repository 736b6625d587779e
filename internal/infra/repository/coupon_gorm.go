package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

// コードは大文字小文字を区別しない
func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// usage_limit未満のときだけカウンタを進める。
// WHEREで上限判定まで済ませ、同時利用でも取り過ぎない。
func (r *CouponGormRepository) IncrementUsageIfAvailable(ctx context.Context, couponID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", couponID).
		Update("usage_count", gorm.Expr("usage_count + 1"))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

func (r *CouponGormRepository) UserAllowlist(ctx context.Context, couponID int64, userID int64) (bool, bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("coupon_allowed_users").
		Where("coupon_id = ?", couponID).
		Count(&total).Error
	if err != nil {
		return false, false, err
	}
	if total == 0 {
		//allowlist無し＝全ユーザー向け
		return false, false, nil
	}

	var matched int64
	err = r.db.WithContext(ctx).
		Table("coupon_allowed_users").
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&matched).Error
	if err != nil {
		return true, false, err
	}
	return true, matched > 0, nil
}

func (r *CouponGormRepository) CountUsageByUser(ctx context.Context, couponID int64, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CouponGormRepository) CreateUsage(ctx context.Context, usage model.CouponUsage) error {
	return r.db.WithContext(ctx).Create(&usage).Error
}

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// productを対象に含むセール＋全商品対象のセール
func (r *SaleGormRepository) ListForProduct(ctx context.Context, productID int64) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id IN (SELECT sale_id FROM sale_products WHERE product_id = ?) OR id NOT IN (SELECT sale_id FROM sale_products)", productID).
		Order("priority desc").Order("id asc").
		Find(&sales).Error
	if err != nil {
		return []model.Sale{}, err
	}
	return sales, nil
}
