package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/queue"
	"github.com/quicktickets/backend/internal/repository"
	"github.com/quicktickets/backend/internal/service"
	"github.com/quicktickets/backend/internal/utils"
	"github.com/quicktickets/backend/pkg/logger"
)

// AuthHandler implements registration, login and profile lookup.
type AuthHandler struct {
	Users      *repository.UserRepo
	Notifier   service.Notifier
	Log        logger.Logger
	JWTSecret  string
	AccessTTL  int // minutes
	BcryptCost int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *repository.UserRepo, notifier service.Notifier, log logger.Logger, secret string, accessTTLMin, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		Users:      users,
		Notifier:   notifier,
		Log:        log,
		JWTSecret:  secret,
		AccessTTL:  accessTTLMin,
		BcryptCost: bcryptCost,
	}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	State     string `json:"state"`
	Country   string `json:"country"`
	Role      string `json:"role"`
}

type userResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Role         string `json:"role"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		State:        u.State,
		Country:      u.Country,
		Role:         u.Role,
		IsSubscribed: u.IsSubscribed,
	}
}

// Register handles POST /v1/auth/register. New accounts default to the
// CUSTOMER role; ORGANIZER may be requested at signup, ADMIN may not.
func (h *AuthHandler) Register(c echo.Context) error {
	var body registerRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.FirstName == "" || body.LastName == "" || body.Email == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, email and a password of at least 8 characters are required"})
	}
	if !strings.Contains(body.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}
	role := model.RoleCustomer
	if body.Role == model.RoleOrganizer {
		role = model.RoleOrganizer
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}
	u := &model.User{
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Email:        body.Email,
		PasswordHash: hash,
		Phone:        body.Phone,
		State:        body.State,
		Country:      body.Country,
		Role:         role,
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// Welcome email is best effort; a broker outage must not block signup.
	if err := h.Notifier.Publish(c.Request().Context(), queue.EmailMessage{
		Type: queue.EmailWelcome,
		To:   u.Email,
		Name: u.FullName(),
	}); err != nil {
		h.Log.Error("welcome email publish failed", "to", u.Email, "error", err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var body loginRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	u, err := h.Users.GetByEmail(c.Request().Context(), body.Email)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid password"})
	}

	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
		"user":         toUserResponse(u),
	})
}

// Me handles GET /v1/me and returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
