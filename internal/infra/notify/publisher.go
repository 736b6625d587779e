package notify

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// メールワーカーが読むキュー
const (
	QueueOrderConfirmation = "email.order_confirmation"
	QueuePaymentFailed     = "email.payment_failed"
	QueueLowStock          = "email.low_stock"
)

// Publisher はイベントをRabbitMQへ投げ、EmailLogに記録する。
// 通知は業務フローを巻き添えにしない：失敗はログに残すだけ。
type Publisher struct {
	conn      *amqp.Connection
	ch        *amqp.Channel
	emailLogs repo.EmailLogRepository
}

func NewPublisher(url string, emailLogs repo.EmailLogRepository) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	p := &Publisher{conn: conn, ch: ch, emailLogs: emailLogs}
	for _, q := range []string{QueueOrderConfirmation, QueuePaymentFailed, QueueLowStock} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) publishJSON(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *Publisher) record(ctx context.Context, tmpl model.EmailTemplateType, recipient string, subject string, pubErr error) {
	row := model.EmailLog{
		TemplateType: tmpl,
		Recipient:    recipient,
		Subject:      subject,
		Status:       model.EmailStatusPending,
	}
	if pubErr != nil {
		row.Status = model.EmailStatusFailed
		row.ErrorMessage = pubErr.Error()
	}
	if err := p.emailLogs.Create(ctx, row); err != nil {
		log.Error().Err(err).Str("recipient", recipient).Msg("notify: email log write failed")
	}
}

func (p *Publisher) OrderConfirmed(ctx context.Context, ev usecase.OrderConfirmedEvent) {
	err := p.publishJSON(ctx, QueueOrderConfirmation, ev)
	if err != nil {
		log.Error().Err(err).Int64("order", ev.OrderID).Msg("notify: order confirmation publish failed")
	}
	p.record(ctx, model.EmailOrderConfirmation, ev.Recipient, "Order "+ev.OrderNumber+" confirmed", err)
}

func (p *Publisher) PaymentFailed(ctx context.Context, ev usecase.PaymentFailedEvent) {
	err := p.publishJSON(ctx, QueuePaymentFailed, ev)
	if err != nil {
		log.Error().Err(err).Int64("order", ev.OrderID).Msg("notify: payment failed publish failed")
	}
	p.record(ctx, model.EmailPaymentFailed, ev.Recipient, "Payment failed for order "+ev.OrderNumber, err)
}

func (p *Publisher) LowStock(ctx context.Context, ev usecase.LowStockEvent) {
	err := p.publishJSON(ctx, QueueLowStock, ev)
	if err != nil {
		log.Error().Err(err).Int64("product", ev.ProductID).Msg("notify: low stock publish failed")
	}
	p.record(ctx, model.EmailLowStockAlert, "ops@localhost", "Low stock: "+ev.SKU, err)
}

// AMQP未設定の環境向け。ログだけ残す。
type NopPublisher struct{}

func (NopPublisher) OrderConfirmed(_ context.Context, ev usecase.OrderConfirmedEvent) {
	log.Info().Int64("order", ev.OrderID).Msg("notify (nop): order confirmed")
}

func (NopPublisher) PaymentFailed(_ context.Context, ev usecase.PaymentFailedEvent) {
	log.Info().Int64("order", ev.OrderID).Msg("notify (nop): payment failed")
}

func (NopPublisher) LowStock(_ context.Context, ev usecase.LowStockEvent) {
	log.Info().Int64("product", ev.ProductID).Msg("notify (nop): low stock")
}
