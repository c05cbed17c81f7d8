package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/internal/repository"
)

// CategoryHandler implements the category catalog endpoints. Reads are
// public; writes are admin only.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categories *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func toCategoryResponse(cat *model.Category) categoryResponse {
	return categoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description, ImageURL: cat.ImageURL}
}

// Create handles POST /v1/categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	var body categoryRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cat := &model.Category{Name: body.Name, Description: body.Description, ImageURL: body.ImageURL}
	if err := h.Categories.Create(c.Request().Context(), cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

// List handles GET /v1/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]categoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, toCategoryResponse(&cats[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	cat, err := h.Categories.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

// Update handles PUT /v1/categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	cat, err := h.Categories.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body categoryRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cat.Name = body.Name
	cat.Description = body.Description
	cat.ImageURL = body.ImageURL
	if err := h.Categories.Update(c.Request().Context(), cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

// Delete handles DELETE /v1/categories/:id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.Categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
