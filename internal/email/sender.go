// Package email renders and delivers transactional mail over SMTP. It
// sits behind the email.send queue; nothing in the request path calls
// it directly.
package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/quicktickets/backend/internal/queue"
	"github.com/quicktickets/backend/pkg/logger"
)

// Sender delivers queue.EmailMessages via an SMTP relay. It implements
// queue.Deliverer.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	log    logger.Logger
}

// NewSender builds a Sender for the given SMTP relay. The user doubles
// as the From address, mirroring how the relay accounts are set up.
func NewSender(host string, port int, user, pass string, log logger.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
		log:    log,
	}
}

// Deliver renders the template matching the message type and sends it.
// Unknown types are an error so they surface in the consumer log
// instead of vanishing.
func (s *Sender) Deliver(msg queue.EmailMessage) error {
	var (
		subject string
		body    string
		err     error
	)
	switch msg.Type {
	case queue.EmailWelcome:
		subject = "Welcome to QuickTickets!"
		body, err = renderTemplate(welcomeTmpl, msg.Name, "", msg.EventDate, 0)
	case queue.EmailPurchase:
		subject = fmt.Sprintf("Your tickets for %s", msg.EventName)
		body, err = renderTemplate(purchaseTmpl, msg.Name, msg.EventName, msg.EventDate, msg.Quantity)
	case queue.EmailReminder:
		subject = fmt.Sprintf("Reminder: %s is coming up", msg.EventName)
		body, err = renderTemplate(reminderTmpl, msg.Name, msg.EventName, msg.EventDate, msg.Quantity)
	default:
		return fmt.Errorf("unknown email type %q", msg.Type)
	}
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	s.log.Info("email sent", "type", msg.Type, "to", msg.To)
	return nil
}
