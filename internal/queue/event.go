// Package queue defines the email messages exchanged over the broker
// and the publisher/consumer pair that moves them. Email delivery is
// decoupled from request handling: the API publishes and forgets, the
// background consumer talks SMTP.
package queue

import "time"

// Message kinds understood by the email consumer.
const (
	EmailWelcome  = "welcome"
	EmailPurchase = "purchase_confirmation"
	EmailReminder = "event_reminder"
)

// emailQueueName is the durable queue both sides declare.
const emailQueueName = "email.send"

// EmailMessage is the payload published for every outbound email. It
// carries enough information for the consumer to render a template
// without querying the primary database.
type EmailMessage struct {
	Type      string    `json:"type"`
	To        string    `json:"to"`
	Name      string    `json:"name"`
	EventName string    `json:"event_name,omitempty"`
	EventDate time.Time `json:"event_date,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
}
