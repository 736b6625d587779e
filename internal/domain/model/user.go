package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// 認証自体は外部（IDトークン発行側）の責務。ここでは参照整合のみ。
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string `gorm:"type:varchar(120)" json:"full_name"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
