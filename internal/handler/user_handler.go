package handler

import (
	"net/http"
	"time"

	"chalan-service/internal/model"
	"chalan-service/pkg/database"
	"chalan-service/pkg/jwtutil"
	"chalan-service/pkg/logger"
	"chalan-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetProfile returns the current user's profile
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		log.Error("Failed to get user claims from context")
		prometheus.RecordAuthError("missing_claims")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		// Tokens outlive their user row; a deleted account still carries a
		// valid token until expiry.
		log.Warn("Profile requested for missing user", zap.Uint("user_id", claims.UserID))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"isRoot":   user.IsRoot,
	})
}

// DeleteProfile removes the current user's account
func DeleteProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		log.Error("Failed to get user claims from context")
		prometheus.RecordAuthError("missing_claims")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&model.User{}, claims.UserID); result.Error != nil {
		log.Error("Failed to delete profile", zap.Uint("user_id", claims.UserID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	log.Info("Profile deleted", zap.Uint("user_id", claims.UserID), zap.String("username", claims.Username))
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile deleted"})
}
