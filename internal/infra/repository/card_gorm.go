package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CardGormRepository struct {
	db *gorm.DB
}

func NewCardGormRepository(db *gorm.DB) *CardGormRepository {
	return &CardGormRepository{db: db}
}

func (r *CardGormRepository) UpsertGeneration(ctx context.Context, g model.Generation) (model.Generation, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"release_year"}),
		}).
		Create(&g).Error
	if err != nil {
		return model.Generation{}, err
	}
	//ON CONFLICTで既存行に当たったときはIDを引き直す
	if g.ID == 0 {
		if err := r.db.WithContext(ctx).Where("name = ?", g.Name).First(&g).Error; err != nil {
			return model.Generation{}, err
		}
	}
	return g, nil
}

func (r *CardGormRepository) UpsertSet(ctx context.Context, s model.CardSet) (model.CardSet, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "release_date", "generation_id", "updated_at"}),
		}).
		Create(&s).Error
	if err != nil {
		return model.CardSet{}, err
	}
	if s.ID == 0 {
		if err := r.db.WithContext(ctx).Where("code = ?", s.Code).First(&s).Error; err != nil {
			return model.CardSet{}, err
		}
	}
	return s, nil
}

func (r *CardGormRepository) UpsertCard(ctx context.Context, c model.Card) (model.Card, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "card_set_id"}, {Name: "set_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"global_id", "name", "supertype", "rarity", "artist",
				"flavor_text", "is_holo", "image_small", "image_large",
				"market_url", "updated_at",
			}),
		}).
		Create(&c).Error
	if err != nil {
		return model.Card{}, err
	}
	if c.ID == 0 {
		if err := r.db.WithContext(ctx).
			Where("card_set_id = ? AND set_number = ?", c.CardSetID, c.SetNumber).
			First(&c).Error; err != nil {
			return model.Card{}, err
		}
	}
	return c, nil
}

func (r *CardGormRepository) ListSets(ctx context.Context, page int, limit int) ([]model.CardSet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CardSet{}).Count(&total).Error; err != nil {
		return []model.CardSet{}, 0, err
	}

	var sets []model.CardSet
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("release_date desc").Order("id desc").
		Limit(limit).Offset(offset).
		Find(&sets).Error
	if err != nil {
		return []model.CardSet{}, 0, err
	}
	return sets, total, nil
}

func (r *CardGormRepository) ListCards(ctx context.Context, q repo.CardListQuery) ([]model.Card, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Card{})

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}
	if q.CardSetID != nil {
		tx = tx.Where("card_set_id = ?", *q.CardSetID)
	}
	if q.Rarity != "" {
		tx = tx.Where("rarity = ?", q.Rarity)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Card{}, 0, err
	}

	var cards []model.Card
	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("card_set_id asc").Order("set_number asc").
		Limit(q.Limit).Offset(offset).Find(&cards).Error; err != nil {
		return []model.Card{}, 0, err
	}
	return cards, total, nil
}

func (r *CardGormRepository) FindCardByID(ctx context.Context, id int64) (model.Card, error) {
	var c model.Card
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Card{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Card{}, err
	}
	return c, nil
}
