package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quicktickets/backend/pkg/logger"
)

// Deliverer is the narrow contract the consumer needs from the email
// sender. Implemented by email.Sender.
type Deliverer interface {
	Deliver(msg EmailMessage) error
}

// StartEmailConsumer connects to RabbitMQ, declares the durable
// email.send queue, and consumes messages, handing each to the
// Deliverer. It runs a reconnect loop with exponential backoff and
// never returns under normal operation; processing errors are logged
// and the offending message is rejected without requeue so a poison
// message cannot wedge the queue.
func StartEmailConsumer(url string, d Deliverer, log logger.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("email consumer: broker dial failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(conn, d, log)
		// Close before redialing; a declare or consume error leaves the
		// connection itself alive.
		_ = conn.Close()
		log.Warn("email consumer: consume loop ended", "error", err)
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection, d Deliverer, log logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Warn("email consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for delivery := range msgs {
		if err := handleMessage(delivery.Body, d); err != nil {
			log.Error("email consumer: handle message failed", "error", err)
			_ = delivery.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = delivery.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, d Deliverer) error {
	var msg EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if msg.To == "" {
		return errors.New("message has no recipient")
	}
	return d.Deliver(msg)
}
