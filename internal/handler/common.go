// Package handler implements the HTTP layer. Handlers bind and
// validate requests, call repositories or services, and translate
// sentinel errors into HTTP statuses. Authentication and role checks
// are performed by middleware before any handler here runs.
package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
)

var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's ID installed by the JWT
// middleware. Handlers return 401 when it is absent.
func getUserID(c echo.Context) (string, error) {
	id, ok := c.Get("user_id").(string)
	if !ok || id == "" {
		return "", errNoUser
	}
	return id, nil
}

// isAdmin reports whether the current request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// isStaff reports whether the current request carries a role allowed to
// verify tickets at the door.
func isStaff(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin || role == model.RoleOrganizer
}
