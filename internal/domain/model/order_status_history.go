package model

import "time"

//注文ステータス遷移の履歴（追記のみ）

type OrderStatusHistory struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64       `gorm:"not null;index" json:"order_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Notes       string      `gorm:"type:varchar(255)" json:"notes"`
	CreatedByID *int64      `json:"created_by_id"` // nullはシステム起点
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
}
