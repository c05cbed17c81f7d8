package service

import (
	"context"
	"time"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/queue"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/pkg/logger"
)

// EventReader supplies event metadata to the orchestrator.
// Implemented by repository.EventRepo.
type EventReader interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// BuyerReader supplies the buyer's contact details for notifications.
// Implemented by repository.UserRepo.
type BuyerReader interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// PurchaseStore persists the durable half of a purchase atomically.
// Implemented by repository.PurchaseRepo.
type PurchaseStore interface {
	Execute(ctx context.Context, order *model.Order, tickets []model.Ticket) error
}

// Notifier publishes outbound email messages. Implemented by
// queue.Publisher. Failures are non-fatal to the purchase.
type Notifier interface {
	Publish(ctx context.Context, msg queue.EmailMessage) error
}

// ReminderScheduler registers future one-shot reminders. Implemented
// by scheduler.Scheduler. Failures are non-fatal to the purchase.
type ReminderScheduler interface {
	Schedule(ctx context.Context, j *model.ReminderJob) error
}

// OrderService sequences a purchase end to end: validate, reserve and
// record and issue in one transaction, then notify and schedule
// reminders. All collaborators are injected at construction.
type OrderService struct {
	events    EventReader
	buyers    BuyerReader
	store     PurchaseStore
	issuer    *Issuer
	notifier  Notifier
	scheduler ReminderScheduler
	log       logger.Logger
}

// NewOrderService constructs an OrderService.
func NewOrderService(
	events EventReader,
	buyers BuyerReader,
	store PurchaseStore,
	issuer *Issuer,
	notifier Notifier,
	scheduler ReminderScheduler,
	log logger.Logger,
) *OrderService {
	return &OrderService{
		events:    events,
		buyers:    buyers,
		store:     store,
		issuer:    issuer,
		notifier:  notifier,
		scheduler: scheduler,
		log:       log,
	}
}

// PlaceOrder executes one purchase attempt for an authenticated buyer.
//
// Failure semantics: ErrInvalidQuantity, repository.ErrEventNotFound
// and repository.ErrInsufficientAvailability abort with nothing
// written. A storage failure mid-transaction rolls the whole purchase
// back. Once the transaction commits, notification and scheduling
// errors are logged and swallowed; the purchase is still reported
// successful.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID, eventID string, quantity int) (*model.Order, []model.Ticket, error) {
	if quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if !event.IsActive {
		return nil, nil, repository.ErrEventNotFound
	}

	buyer, err := s.buyers.GetByID(ctx, buyerID)
	if err != nil {
		return nil, nil, err
	}

	tickets := s.issuer.Issue(eventID, buyerID, quantity)
	order := &model.Order{
		EventID:  eventID,
		BuyerID:  buyerID,
		Quantity: quantity,
	}

	if err := s.store.Execute(ctx, order, tickets); err != nil {
		return nil, nil, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"event_id", eventID,
		"buyer_id", buyerID,
		"quantity", quantity,
	)

	s.sendConfirmation(ctx, buyer, event, quantity)
	s.scheduleReminders(ctx, order, buyer, event)

	return order, tickets, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, buyer *model.User, event *model.Event, quantity int) {
	msg := queue.EmailMessage{
		Type:      queue.EmailPurchase,
		To:        buyer.Email,
		Name:      buyer.FullName(),
		EventName: event.Name,
		EventDate: event.StartsAt,
		Quantity:  quantity,
	}
	if err := s.notifier.Publish(ctx, msg); err != nil {
		s.log.Error("purchase confirmation publish failed",
			"event_id", event.ID, "to", buyer.Email, "error", err)
	}
}

// scheduleReminders registers the two reminder jobs for an order: one
// a week before the event and one at the start of the event's calendar
// day (UTC). A week-before time already in the past is still
// registered; the scheduler fires it immediately.
func (s *OrderService) scheduleReminders(ctx context.Context, order *model.Order, buyer *model.User, event *model.Event) {
	start := event.StartsAt.UTC()
	fireTimes := []time.Time{
		start.Add(-7 * 24 * time.Hour),
		time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
	}
	for _, fireAt := range fireTimes {
		job := &model.ReminderJob{
			OrderID:   order.ID,
			Email:     buyer.Email,
			FullName:  buyer.FullName(),
			EventID:   event.ID,
			EventName: event.Name,
			StartsAt:  event.StartsAt,
			Quantity:  order.Quantity,
			FireAt:    fireAt,
		}
		if err := s.scheduler.Schedule(ctx, job); err != nil {
			s.log.Error("reminder scheduling failed",
				"order_id", order.ID, "fire_at", fireAt, "error", err)
		}
	}
}
