package middleware

import (
	"net/http"
	"strings"

	"chalan-service/internal/model"
	"chalan-service/pkg/jwtutil"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Extract the token
		tokenString := parts[1]

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user", claims)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		// Token is valid, proceed with the request
		return next(c)
	}
}

// RequireEditor gates record mutation on the caller's role: root, edit and
// full may update or delete, add-only may not. Must run after
// AuthMiddleware.
func RequireEditor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, ok := c.Get("user").(*jwtutil.UserClaims)
		if !ok {
			log.Error("Failed to get user claims from context")
			prometheus.RecordAuthError("missing_claims")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		if !model.CanMutate(claims.Role) {
			log.Warn("Role not permitted to modify records",
				zap.String("username", claims.Username),
				zap.String("role", claims.Role))
			prometheus.RecordAuthError("role_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "role not permitted to modify records"})
		}

		return next(c)
	}
}
