package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quicktickets/backend/pkg/logger"
)

// Publisher pushes EmailMessages onto the email.send queue. Errors are
// logged and returned so callers can choose to ignore them; a broker
// outage must never fail a purchase.
type Publisher struct {
	url string
	log logger.Logger
}

// NewPublisher returns a Publisher that dials the broker at url on
// each publish. The connection-per-publish model trades throughput for
// robustness: there is no shared channel to go stale.
func NewPublisher(url string, log logger.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Publish marshals the message and delivers it to the durable
// email.send queue with persistent delivery mode.
func (p *Publisher) Publish(ctx context.Context, msg EmailMessage) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		p.log.Error("rabbitmq queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("marshal email message failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", emailQueueName, false, false, pub); err != nil {
		p.log.Error("rabbitmq publish failed", "error", err, "type", msg.Type)
		return err
	}
	return nil
}
