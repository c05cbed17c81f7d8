package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/queue"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/pkg/logger"
)

// MockEventReader mocks the event lookup dependency.
type MockEventReader struct {
	mock.Mock
}

func (m *MockEventReader) GetByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

// MockBuyerReader mocks the buyer lookup dependency.
type MockBuyerReader struct {
	mock.Mock
}

func (m *MockBuyerReader) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockPurchaseStore mocks the transactional purchase writer.
type MockPurchaseStore struct {
	mock.Mock
}

func (m *MockPurchaseStore) Execute(ctx context.Context, order *model.Order, tickets []model.Ticket) error {
	args := m.Called(order, tickets)
	// Mimic the real store assigning the order ID on commit.
	if args.Error(0) == nil && order.ID == "" {
		order.ID = "order-1"
		order.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

// MockNotifier mocks the email queue publisher.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, msg queue.EmailMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

// MockReminderScheduler records scheduled reminder jobs.
type MockReminderScheduler struct {
	mock.Mock
	jobs []model.ReminderJob
}

func (m *MockReminderScheduler) Schedule(ctx context.Context, j *model.ReminderJob) error {
	args := m.Called(j)
	if args.Error(0) == nil {
		m.jobs = append(m.jobs, *j)
	}
	return args.Error(0)
}

func testEvent(startsAt time.Time) *model.Event {
	return &model.Event{
		ID:           "event-1",
		Name:         "Summer Concert",
		StartsAt:     startsAt,
		PriceCents:   2500,
		Capacity:     100,
		Availability: 100,
		IsActive:     true,
	}
}

func testBuyer() *model.User {
	return &model.User{
		ID:        "buyer-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      model.RoleCustomer,
		IsActive:  true,
	}
}

func newTestOrderService(events *MockEventReader, buyers *MockBuyerReader, store *MockPurchaseStore, notifier *MockNotifier, sched *MockReminderScheduler) *OrderService {
	return NewOrderService(events, buyers, store, NewIssuer("https://tickets.example.com"), notifier, sched, logger.NewNop())
}

func TestPlaceOrderIssuesOneTicketPerSeat(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Now().UTC().Add(30 * 24 * time.Hour)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Publish", mock.Anything).Return(nil)
	sched.On("Schedule", mock.Anything).Return(nil)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	order, tickets, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, order.Quantity)
	require.Len(t, tickets, 3)

	seen := map[string]bool{}
	for _, tk := range tickets {
		assert.NotEmpty(t, tk.ID)
		assert.False(t, seen[tk.ID], "ticket IDs must be distinct")
		seen[tk.ID] = true
		assert.Equal(t, "event-1", tk.EventID)
		assert.Equal(t, "buyer-1", tk.BuyerID)
		assert.False(t, tk.Used)
		assert.Contains(t, tk.QRPayload, tk.ID)
	}
	store.AssertNumberOfCalls(t, "Execute", 1)
}

func TestPlaceOrderRejectsInvalidQuantity(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	svc := newTestOrderService(events, buyers, store, notifier, sched)

	for _, qty := range []int{0, -1} {
		_, _, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	events.AssertNotCalled(t, "GetByID", mock.Anything)
	store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPlaceOrderInsufficientAvailability(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Now().UTC().Add(30 * 24 * time.Hour)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(repository.ErrInsufficientAvailability)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	order, tickets, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 5)

	assert.ErrorIs(t, err, repository.ErrInsufficientAvailability)
	assert.Nil(t, order)
	assert.Nil(t, tickets)
	notifier.AssertNotCalled(t, "Publish", mock.Anything)
	sched.AssertNotCalled(t, "Schedule", mock.Anything)
}

func TestPlaceOrderInactiveEventIsNotFound(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	e := testEvent(time.Now().UTC().Add(time.Hour))
	e.IsActive = false
	events.On("GetByID", "event-1").Return(e, nil)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	_, _, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 1)

	assert.ErrorIs(t, err, repository.ErrEventNotFound)
	store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPlaceOrderStorageFailureAbortsEverything(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Now().UTC().Add(30 * 24 * time.Hour)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	_, _, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 2)

	assert.Error(t, err)
	notifier.AssertNotCalled(t, "Publish", mock.Anything)
	sched.AssertNotCalled(t, "Schedule", mock.Anything)
}

func TestPlaceOrderNotifierFailureIsNonFatal(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Now().UTC().Add(30 * 24 * time.Hour)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Publish", mock.Anything).Return(errors.New("broker down"))
	sched.On("Schedule", mock.Anything).Return(nil)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	order, tickets, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 1)

	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, tickets, 1)
}

func TestPlaceOrderSchedulesWeekBeforeAndDayOfReminders(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Date(2026, 9, 20, 19, 30, 0, 0, time.UTC)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Publish", mock.Anything).Return(nil)
	sched.On("Schedule", mock.Anything).Return(nil)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	_, _, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 2)
	require.NoError(t, err)

	require.Len(t, sched.jobs, 2)
	assert.Equal(t, start.Add(-7*24*time.Hour), sched.jobs[0].FireAt)
	assert.Equal(t, time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), sched.jobs[1].FireAt)
	for _, j := range sched.jobs {
		assert.Equal(t, "ada@example.com", j.Email)
		assert.Equal(t, "Summer Concert", j.EventName)
		assert.Equal(t, 2, j.Quantity)
	}
}

// An event closer than a week away still registers the week-before job;
// the scheduler is responsible for firing overdue jobs immediately.
func TestPlaceOrderRegistersPastDueReminder(t *testing.T) {
	events := new(MockEventReader)
	buyers := new(MockBuyerReader)
	store := new(MockPurchaseStore)
	notifier := new(MockNotifier)
	sched := new(MockReminderScheduler)

	start := time.Now().UTC().Add(3 * 24 * time.Hour)
	events.On("GetByID", "event-1").Return(testEvent(start), nil)
	buyers.On("GetByID", "buyer-1").Return(testBuyer(), nil)
	store.On("Execute", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Publish", mock.Anything).Return(nil)
	sched.On("Schedule", mock.Anything).Return(nil)

	svc := newTestOrderService(events, buyers, store, notifier, sched)
	_, _, err := svc.PlaceOrder(context.Background(), "buyer-1", "event-1", 1)
	require.NoError(t, err)

	require.Len(t, sched.jobs, 2)
	assert.True(t, sched.jobs[0].FireAt.Before(time.Now().UTC()), "week-before job for a near event is already due")
}
