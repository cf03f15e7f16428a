// Package rabbitmq отвечает за доставку событий аудита в RabbitMQ.
//
// В очередь entitlement.audit попадают события безопасности и сверки:
// несовпадение подписи платежа, захваченный платёж без записанного апгрейда,
// выдача административных прав. Очередь durable — события переживают
// перезапуск брокера.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	// Exchange — exchange для событий аудита.
	Exchange = "entitlement"
	// AuditQueue — очередь событий безопасности и сверки.
	AuditQueue = "entitlement.audit"
	// AuditRoutingKey — ключ маршрутизации событий аудита.
	AuditRoutingKey = "audit"
)

func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		AuditQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.QueueBind(AuditQueue, AuditRoutingKey, Exchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, err
}
