package model

import "time"

// 商品レビュー。1商品につき1ユーザー1件。
type Review struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index;uniqueIndex:uniq_product_user" json:"product_id"`
	UserID    int64 `gorm:"not null;index;uniqueIndex:uniq_product_user" json:"user_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Comment string `gorm:"type:text" json:"comment"`

	//配達済み注文にその商品が含まれていたか
	IsVerifiedPurchase bool `gorm:"not null;default:false" json:"is_verified_purchase"`
	IsApproved         bool `gorm:"not null;default:true" json:"is_approved"`

	HelpfulCount int64 `gorm:"not null;default:0" json:"helpful_count"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
