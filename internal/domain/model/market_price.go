package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 外部フィードで観測した最新の市場価格。Productごとに1行を上書き。
type MarketPrice struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64           `gorm:"not null;uniqueIndex" json:"product_id"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Source    string          `gorm:"type:varchar(50);not null" json:"source"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	ObservedAt time.Time `gorm:"not null" json:"observed_at"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
