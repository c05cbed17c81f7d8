package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/service"
)

// EventHandler implements the event catalog endpoints.
type EventHandler struct {
	Events       *repository.EventRepo
	Availability *service.AvailabilityService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *repository.EventRepo, availability *service.AvailabilityService) *EventHandler {
	return &EventHandler{Events: events, Availability: availability}
}

type eventRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	StartsAt    string  `json:"starts_at"` // RFC 3339
	PriceCents  int64   `json:"price_cents"`
	Capacity    int     `json:"capacity"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type eventResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	StartsAt     time.Time `json:"starts_at"`
	PriceCents   int64     `json:"price_cents"`
	Capacity     int       `json:"capacity"`
	Availability int       `json:"availability"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CreatorID    string    `json:"creator_id"`
	IsActive     bool      `json:"is_active"`
}

func toEventResponse(e *model.Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		ImageURL:     e.ImageURL,
		StartsAt:     e.StartsAt,
		PriceCents:   e.PriceCents,
		Capacity:     e.Capacity,
		Availability: e.Availability,
		Category:     e.Category,
		Location:     e.Location,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		CreatorID:    e.CreatorID,
		IsActive:     e.IsActive,
	}
}

// Create handles POST /v1/events. Only organizers and admins reach this
// handler; the signed-in user becomes the event's creator.
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body eventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.Capacity <= 0 || body.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, a positive capacity and a non-negative price are required"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}

	e := &model.Event{
		Name:        body.Name,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		StartsAt:    startsAt.UTC(),
		PriceCents:  body.PriceCents,
		Capacity:    body.Capacity,
		Category:    body.Category,
		Location:    body.Location,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		CreatorID:   userID,
	}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// List handles GET /v1/events and returns all active events.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Mine handles GET /v1/events/mine and returns the caller's events,
// inactive ones included.
func (h *EventHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	events, err := h.Events.ListByCreator(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	e, err := h.Events.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// CheckAvailability handles GET /v1/events/:id/availability. With a
// quantity parameter it also answers whether that many tickets can be
// bought right now; the answer is advisory, the purchase transaction
// re-checks.
func (h *EventHandler) CheckAvailability(c echo.Context) error {
	eventID := c.Param("id")
	qty := 1
	if raw := c.QueryParam("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be an integer"})
		}
		qty = n
	}

	ok, err := h.Availability.Check(c.Request().Context(), eventID, qty)
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	remaining, err := h.Events.Availability(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":     eventID,
		"availability": remaining,
		"quantity":     qty,
		"available":    ok,
	})
}

// Update handles PUT /v1/events/:id. Only the creator or an admin may
// edit; capacity and availability are immutable after creation.
func (h *EventHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if e.CreatorID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the event creator"})
	}

	var body eventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a non-negative price are required"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}

	e.Name = body.Name
	e.Description = body.Description
	e.ImageURL = body.ImageURL
	e.StartsAt = startsAt.UTC()
	e.PriceCents = body.PriceCents
	e.Category = body.Category
	e.Location = body.Location
	e.Latitude = body.Latitude
	e.Longitude = body.Longitude

	if err := h.Events.Update(c.Request().Context(), e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete handles DELETE /v1/events/:id, restricted to the creator or an
// admin.
func (h *EventHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if e.CreatorID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the event creator"})
	}
	if err := h.Events.Delete(c.Request().Context(), e.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}
