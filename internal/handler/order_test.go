package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/service"
)

// MockOrderPlacer mocks the purchase flow behind the handler.
type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) PlaceOrder(ctx context.Context, buyerID, eventID string, quantity int) (*model.Order, []model.Ticket, error) {
	args := m.Called(buyerID, eventID, quantity)
	var o *model.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*model.Order)
	}
	var ts []model.Ticket
	if args.Get(1) != nil {
		ts = args.Get(1).([]model.Ticket)
	}
	return o, ts, args.Error(2)
}

func newOrderRequest(t *testing.T, body string, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestCreateOrderSuccess(t *testing.T) {
	placer := new(MockOrderPlacer)
	now := time.Now().UTC()
	order := &model.Order{ID: "order-1", EventID: "event-1", BuyerID: "buyer-1", Quantity: 2, CreatedAt: now}
	tickets := []model.Ticket{
		{ID: "t-1", EventID: "event-1", BuyerID: "buyer-1", QRPayload: "https://x/v1/tickets/t-1", PurchasedAt: now},
		{ID: "t-2", EventID: "event-1", BuyerID: "buyer-1", QRPayload: "https://x/v1/tickets/t-2", PurchasedAt: now},
	}
	placer.On("PlaceOrder", "buyer-1", "event-1", 2).Return(order, tickets, nil)

	h := NewOrderHandler(placer, nil)
	c, rec := newOrderRequest(t, `{"event_id":"event-1","quantity":2}`, "buyer-1")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order   orderResponse    `json:"order"`
		Tickets []ticketResponse `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order-1", resp.Order.ID)
	assert.Len(t, resp.Tickets, 2)
	placer.AssertExpectations(t)
}

func TestCreateOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid quantity", service.ErrInvalidQuantity, http.StatusBadRequest},
		{"unknown event", repository.ErrEventNotFound, http.StatusNotFound},
		{"sold out", repository.ErrInsufficientAvailability, http.StatusConflict},
		{"unknown buyer", repository.ErrUserNotFound, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			placer := new(MockOrderPlacer)
			placer.On("PlaceOrder", "buyer-1", "event-1", 2).Return(nil, nil, tc.err)

			h := NewOrderHandler(placer, nil)
			c, rec := newOrderRequest(t, `{"event_id":"event-1","quantity":2}`, "buyer-1")

			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCreateOrderRequiresEventID(t *testing.T) {
	placer := new(MockOrderPlacer)
	h := NewOrderHandler(placer, nil)
	c, rec := newOrderRequest(t, `{"quantity":2}`, "buyer-1")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	placer.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	placer := new(MockOrderPlacer)
	h := NewOrderHandler(placer, nil)
	c, rec := newOrderRequest(t, `{"event_id":"event-1","quantity":1}`, "")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
