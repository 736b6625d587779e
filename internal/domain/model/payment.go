package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 決済レコード。ゲートウェイ連携自体は外部なので結果だけ持つ。
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"transaction_id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	UserID        int64           `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
}
