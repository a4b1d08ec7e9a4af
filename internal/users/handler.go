package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/httperr"
	"nexnote/pkg/middleware"
)

// Handler handles HTTP requests for the authenticated user's own account.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetProfile returns the acting user, freshly loaded by the auth middleware.
func (h *Handler) GetProfile(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}
	return c.JSON(http.StatusOK, actor)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), actor, req)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if err := h.service.ChangePassword(c.Request().Context(), actor, req); err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *Handler) ToggleFavorite(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	noteID, err := primitive.ObjectIDFromHex(c.Param("noteId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note ID"})
	}

	nowFavorite, err := h.service.ToggleFavorite(c.Request().Context(), actor, noteID)
	if err != nil {
		return httperr.JSON(c, err)
	}

	message := "Removed from favorites"
	if nowFavorite {
		message = "Added to favorites"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    message,
		"isFavorite": nowFavorite,
	})
}

func (h *Handler) ListFavorites(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing user"})
	}

	favorites, err := h.service.Favorites(c.Request().Context(), actor)
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}
