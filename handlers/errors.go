package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Pland4r/qcm-creator-hub/middleware"
	"github.com/Pland4r/qcm-creator-hub/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Anything unknown is
// logged and reported as a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, services.ErrNotQuizOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this quiz"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already in use"})
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email is already registered"})
	default:
		_ = c.Error(err)
		logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return id, true
}
