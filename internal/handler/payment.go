package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/payment"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/pkg/logger"
)

// IntentCreator matches payment.CreateIntent so tests can swap the
// Stripe call out.
type IntentCreator func(amountCents int64, idempotencyKey, description string) (*payment.Intent, error)

// PaymentHandler implements the card payment endpoints.
type PaymentHandler struct {
	Events       *repository.EventRepo
	CreateIntent IntentCreator
	Log          logger.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(events *repository.EventRepo, create IntentCreator, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{Events: events, CreateIntent: create, Log: log}
}

type createIntentRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// Intent handles POST /v1/payments/intent. The amount is computed
// server side from the event's price, never taken from the client.
func (h *PaymentHandler) Intent(c echo.Context) error {
	buyerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createIntentRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == "" || body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and a positive quantity are required"})
	}

	e, err := h.Events.GetByID(c.Request().Context(), body.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !e.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	amount := e.PriceCents * int64(body.Quantity)
	desc := fmt.Sprintf("%d ticket(s) for %s", body.Quantity, e.Name)
	intent, err := h.CreateIntent(amount, uuid.New().String(), desc)
	if err != nil {
		h.Log.Error("payment intent failed", "event_id", e.ID, "buyer_id", buyerID, "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider unavailable"})
	}
	return c.JSON(http.StatusCreated, intent)
}
