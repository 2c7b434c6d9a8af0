package middleware

import (
	"net/http"
	"strings"

	deliverycontext "daansetu/internal/delivery/context"
	"daansetu/internal/domain/entity"
	"daansetu/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for session-backed authentication and authorization.
type AuthMiddleware struct {
	sessionUc usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionUc usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{sessionUc: sessionUc}
}

// Authenticate validates the bearer token against the session store. Unlike a
// pure JWT check this rejects tokens whose session was revoked by a newer
// sign-in.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		authUser, err := m.sessionUc.Validate(c.Request().Context(), tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
		}

		// Set user info on the context for handlers to use
		c.Set(string(deliverycontext.KeyAuthUser), authUser)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the user has a specific role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authUser, ok := c.Get(string(deliverycontext.KeyAuthUser)).(*usecase.AuthenticatedUser)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if !authUser.Roles.Contains(requiredRole) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require '" + requiredRole.String() + "' role"})
			}

			return next(c)
		}
	}
}

// AuthUser extracts the authenticated user stored by Authenticate. Handlers
// behind the middleware can rely on it being present.
func AuthUser(c echo.Context) (*usecase.AuthenticatedUser, bool) {
	authUser, ok := c.Get(string(deliverycontext.KeyAuthUser)).(*usecase.AuthenticatedUser)

	return authUser, ok
}
