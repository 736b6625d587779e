package model

import "time"

// 在庫台帳。Productと1対1。
// available = max(0, quantity - reserved) を導出で持ち、保存はしない。
type Inventory struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;uniqueIndex" json:"product_id"`

	Quantity          int64 `gorm:"not null;default:0" json:"quantity"`
	ReservedQuantity  int64 `gorm:"not null;default:0" json:"reserved_quantity"`
	LowStockThreshold int64 `gorm:"not null;default:10" json:"low_stock_threshold"`

	WarehouseLocation string     `gorm:"type:varchar(100)" json:"warehouse_location"`
	LastRestocked     *time.Time `json:"last_restocked"`

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 販売可能数。予約分を引き、負にはしない。
func (i Inventory) Available() int64 {
	if v := i.Quantity - i.ReservedQuantity; v > 0 {
		return v
	}
	return 0
}

func (i Inventory) IsLowStock() bool {
	return i.Available() <= i.LowStockThreshold
}

func (i Inventory) IsOutOfStock() bool {
	return i.Available() <= 0
}
