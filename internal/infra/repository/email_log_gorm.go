package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type EmailLogGormRepository struct {
	db *gorm.DB
}

func NewEmailLogGormRepository(db *gorm.DB) *EmailLogGormRepository {
	return &EmailLogGormRepository{db: db}
}

func (r *EmailLogGormRepository) Create(ctx context.Context, log model.EmailLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}
