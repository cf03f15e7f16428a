package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// AuditEvent — событие аудита, публикуемое в очередь entitlement.audit.
type AuditEvent struct {
	Kind      string            `json:"kind"`
	UserUID   string            `json:"user_uid"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Возможные значения AuditEvent.Kind.
const (
	EventSignatureMismatch      = "payment.signature_mismatch"
	EventReconciliationRequired = "payment.reconciliation_required"
	EventAdminGranted           = "admin.granted"
)

// Publisher публикует события аудита в заранее настроенный канал.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх канала, открытого SetupChannel.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishAudit сериализует событие и отправляет его в очередь аудита.
func (p *Publisher) PublishAudit(event AuditEvent) error {
	const op = "rabbitmq.PublishAudit"
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		AuditRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
