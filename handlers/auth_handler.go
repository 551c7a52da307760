package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Pland4r/qcm-creator-hub/middleware"
	"github.com/Pland4r/qcm-creator-hub/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qcm_auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // success/failure/error
	)

	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qcm_auth_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status"}, // success/conflict/invalid/error
	)

	logoutAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qcm_auth_logout_attempts_total",
			Help: "Total number of logout attempts",
		},
	)
)

type AuthHandler struct {
	authService *services.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		registrationAttempts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &req); err != nil {
		status := "error"
		if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUserExists) {
			status = "conflict"
		}
		registrationAttempts.WithLabelValues(status).Inc()
		respondError(c, h.logger, err)
		return
	}

	registrationAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		status := "error"
		if errors.Is(err, services.ErrInvalidCredentials) {
			status = "failure"
		}
		loginAttempts.WithLabelValues(status).Inc()
		respondError(c, h.logger, err)
		return
	}

	loginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, resp)
}

// Me reports the user behind the bearer token. The auth routes are public,
// so the token is optional at the middleware level and checked here.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), claims.UserID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	logoutAttempts.Inc()
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
