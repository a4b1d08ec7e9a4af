package announcements

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/httperr"
	"nexnote/pkg/middleware"
)

// Handler handles HTTP requests for announcements.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	a, err := h.service.Create(c.Request().Context(), req, actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	semester := 0
	if raw := c.QueryParam("semester"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid semester"})
		}
		semester = n
	}

	announcements, err := h.service.List(c.Request().Context(), c.QueryParam("department"), semester)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, announcements)
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid announcement ID"})
	}

	a, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid announcement ID"})
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	a, err := h.service.Update(c.Request().Context(), id, req, actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid announcement ID"})
	}

	if err := h.service.Delete(c.Request().Context(), id, actor); err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Announcement deleted"})
}
