package model

import "time"

// 世代（Base, Neo, Sword & Shield...）
type Generation struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	ReleaseYear int    `gorm:"not null" json:"release_year"`
}

// 拡張セット
type CardSet struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	GenerationID int64      `gorm:"not null;index" json:"generation_id"`
	Code         string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name         string     `gorm:"type:varchar(200);not null" json:"name"`
	ReleaseDate  *time.Time `json:"release_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// カタログ上のカード1種。販売単位はProduct（状態・言語ごと）側。
type Card struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CardSetID int64  `gorm:"not null;index;uniqueIndex:uniq_set_number" json:"card_set_id"`
	SetNumber string `gorm:"type:varchar(50);not null;index;uniqueIndex:uniq_set_number" json:"set_number"`

	//pokemontcg.io 側のID（swsh4-25 など）
	GlobalID string `gorm:"type:varchar(200);uniqueIndex" json:"global_id"`

	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Supertype   string `gorm:"type:varchar(50)" json:"supertype"`
	Rarity      string `gorm:"type:varchar(50)" json:"rarity"`
	Artist      string `gorm:"type:varchar(200)" json:"artist"`
	FlavorText  string `gorm:"type:text" json:"flavor_text"`
	IsHolo      bool   `gorm:"not null;default:false" json:"is_holo"`
	ImageSmall  string `gorm:"type:varchar(500)" json:"image_small"`
	ImageLarge  string `gorm:"type:varchar(500)" json:"image_large"`
	MarketURL   string `gorm:"type:varchar(500)" json:"market_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
