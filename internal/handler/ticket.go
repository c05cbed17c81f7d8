package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/service"
)

// TicketHandler implements ticket lookup, redemption and PDF download.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Events  *repository.EventRepo
	Users   *repository.UserRepo
	Issuer  *service.Issuer
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(tickets *repository.TicketRepo, events *repository.EventRepo, users *repository.UserRepo, issuer *service.Issuer) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Events: events, Users: users, Issuer: issuer}
}

// Mine handles GET /v1/tickets/mine and returns the caller's tickets.
func (h *TicketHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Tickets.ListByBuyer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/tickets/:id. Readable by the ticket holder, by
// staff verifying at the door (organizer/admin), but not by strangers.
func (h *TicketHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if t.BuyerID != userID && !isStaff(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	}
	return c.JSON(http.StatusOK, toTicketResponse(t))
}

// Redeem handles POST /v1/tickets/:id/redeem. A ticket redeems exactly
// once; a second scan gets 409.
func (h *TicketHandler) Redeem(c echo.Context) error {
	id := c.Param("id")
	err := h.Tickets.Redeem(c.Request().Context(), id)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrTicketUsed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already redeemed"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to redeem ticket"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket redeemed", "ticket_id": id})
}

// Download handles GET /v1/tickets/:id/download and streams a printable
// ticket with the embedded QR code.
func (h *TicketHandler) Download(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	t, err := h.Tickets.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if t.BuyerID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	}
	event, err := h.Events.GetByID(ctx, t.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	holder, err := h.Users.GetByID(ctx, t.BuyerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	pdf, err := h.renderPDF(t, event, holder)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render ticket"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, t.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *TicketHandler) renderPDF(t *model.Ticket, event *model.Event, holder *model.User) ([]byte, error) {
	png, err := h.Issuer.QRCodePNG(t)
	if err != nil {
		return nil, err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(0, 12, event.Name, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, event.StartsAt.Format("Monday, 2 January 2006 at 15:04 MST"), "", 1, "C", false, 0, "")
	if event.Location != "" {
		doc.CellFormat(0, 8, event.Location, "", 1, "C", false, 0, "")
	}
	doc.Ln(6)
	doc.CellFormat(0, 8, "Admit: "+holder.FullName(), "", 1, "C", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("qr-"+t.ID, opts, bytes.NewReader(png))
	// Center the 60mm code on the 210mm page.
	doc.ImageOptions("qr-"+t.ID, 75, doc.GetY()+10, 60, 60, false, opts, 0, "")
	doc.SetY(doc.GetY() + 80)

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, "Ticket "+t.ID, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, t.QRPayload, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
