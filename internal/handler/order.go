package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/service"
)

// OrderPlacer runs the purchase flow. Implemented by
// service.OrderService.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, buyerID, eventID string, quantity int) (*model.Order, []model.Ticket, error)
}

// OrderHandler implements the purchase and order history endpoints.
type OrderHandler struct {
	Placer OrderPlacer
	Orders *repository.OrderRepo
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(placer OrderPlacer, orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Placer: placer, Orders: orders}
}

type createOrderRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	BuyerID   string    `json:"buyer_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type ticketResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	BuyerID     string    `json:"buyer_id"`
	QRPayload   string    `json:"qr_payload"`
	Used        bool      `json:"used"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func toOrderResponse(o *model.Order) orderResponse {
	return orderResponse{ID: o.ID, EventID: o.EventID, BuyerID: o.BuyerID, Quantity: o.Quantity, CreatedAt: o.CreatedAt}
}

func toTicketResponse(t *model.Ticket) ticketResponse {
	return ticketResponse{ID: t.ID, EventID: t.EventID, BuyerID: t.BuyerID, QRPayload: t.QRPayload, Used: t.Used, PurchasedAt: t.PurchasedAt}
}

// Create handles POST /v1/orders. On success the response carries the
// order and every ticket issued for it.
func (h *OrderHandler) Create(c echo.Context) error {
	buyerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createOrderRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}

	order, tickets, err := h.Placer.PlaceOrder(c.Request().Context(), buyerID, body.EventID, body.Quantity)
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrInsufficientAvailability):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough tickets available"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to place order"})
	}

	ts := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		ts = append(ts, toTicketResponse(&tickets[i]))
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order":   toOrderResponse(order),
		"tickets": ts,
	})
}

// Mine handles GET /v1/orders/mine and returns the caller's orders,
// newest first.
func (h *OrderHandler) Mine(c echo.Context) error {
	buyerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/orders/:id. Only the buyer or an admin may read
// an order.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	o, err := h.Orders.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if o.BuyerID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your order"})
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// AdminDelete handles DELETE /v1/orders/:id, admin only. Issued tickets
// survive the deletion.
func (h *OrderHandler) AdminDelete(c echo.Context) error {
	if err := h.Orders.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted"})
}
