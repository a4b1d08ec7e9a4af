package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nexnote/internal/auth"
	"nexnote/internal/httperr"
)

// AuthMiddleware resolves the bearer token to an acting user. The token only
// carries the user id, so role and profile are loaded fresh on every request.
type AuthMiddleware struct {
	users *auth.UserRepository
}

func NewAuthMiddleware(users *auth.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Authenticate rejects missing, invalid or expired tokens with 401 and
// attaches the resolved user to the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing token"})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		userID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		}

		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		}

		user, err := m.users.FindByID(c.Request().Context(), id)
		if err != nil {
			return httperr.JSON(c, err)
		}
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found"})
		}

		c.Set("user", user)
		return next(c)
	}
}

// CurrentUser returns the acting user attached by Authenticate, or nil.
func CurrentUser(c echo.Context) *auth.User {
	user, _ := c.Get("user").(*auth.User)
	return user
}
