package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを、検索/価格帯/ソート/ページング付きで返す。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// 公開（is_active=true）かつ、商品削除されていないものだけ
	tx = tx.Where("is_active = ?", true)

	// q nameを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}

	if q.FeaturedOnly {
		tx = tx.Where("is_featured = ?", true)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("selling_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("selling_price <= ?", *q.MaxPrice)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("selling_price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("selling_price desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) ListByCardID(ctx context.Context, cardID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("card_id = ?", cardID).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":             p.Name,
			"description":      p.Description,
			"condition":        p.Condition,
			"language":         p.Language,
			"cost_price":       p.CostPrice,
			"selling_price":    p.SellingPrice,
			"compare_at_price": p.CompareAtPrice,
			"is_active":        p.IsActive,
			"is_featured":      p.IsFeatured,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) UpdateSellingPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("selling_price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
