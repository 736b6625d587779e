package repository

import (
	"context"

	"app/internal/domain/model"
)

type EmailLogRepository interface {
	Create(ctx context.Context, log model.EmailLog) error
}
