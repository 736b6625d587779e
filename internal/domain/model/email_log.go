package model

import "time"

type EmailTemplateType string

const (
	EmailOrderConfirmation EmailTemplateType = "ORDER_CONFIRMATION"
	EmailPaymentFailed     EmailTemplateType = "PAYMENT_FAILED"
	EmailLowStockAlert     EmailTemplateType = "LOW_STOCK_ALERT"
)

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "PENDING"
	EmailStatusSent    EmailStatus = "SENT"
	EmailStatusFailed  EmailStatus = "FAILED"
)

// 送信はメールワーカー側。ここではキュー投入と記録だけ。
type EmailLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateType EmailTemplateType `gorm:"type:varchar(50);not null;index" json:"template_type"`
	Recipient    string            `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject      string            `gorm:"type:varchar(200);not null" json:"subject"`
	Status       EmailStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	ErrorMessage string            `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	SentAt       *time.Time        `json:"sent_at"`
}
