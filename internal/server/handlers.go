package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/userdocs/userdocs/internal/health"
	"github.com/userdocs/userdocs/internal/users"
)

// UserHandlers provides HTTP handlers for the users resource
type UserHandlers struct {
	userService       users.UserService
	exposeFaultDetail bool
	logger            *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userService users.UserService, exposeFaultDetail bool, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		userService:       userService,
		exposeFaultDetail: exposeFaultDetail,
		logger:            logger,
	}
}

// RegisterRoutes registers the users routes
func (h *UserHandlers) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/users")
	{
		routes.POST("", h.CreateUser)
		routes.GET("", h.ListUsers)
		routes.GET("/:id", h.GetUser)
		routes.PUT("/:id", h.UpdateUser)
		routes.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	var in users.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeError(c, users.NewBadInputError(fmt.Sprintf("invalid request body: %v", err), err))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) ListUsers(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser replaces every field; omitted optional fields become null
func (h *UserHandlers) UpdateUser(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	var in users.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeError(c, users.NewBadInputError(fmt.Sprintf("invalid request body: %v", err), err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// requireStore rejects the request before body parsing when the store is down
func (h *UserHandlers) requireStore(c *gin.Context) bool {
	if h.userService.Available() {
		return true
	}
	h.writeError(c, users.NewUnavailableError())
	return false
}

// writeError is the single place where error types become HTTP statuses
func (h *UserHandlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	detail := err.Error()
	var ue *users.UserError
	if errors.As(err, &ue) {
		detail = ue.Detail()
	}

	switch status {
	case http.StatusInternalServerError:
		h.logger.Error("User store fault",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		if !h.exposeFaultDetail {
			detail = "Internal server error"
		}
	case http.StatusServiceUnavailable:
		h.logger.Warn("User store unavailable", zap.String("path", c.Request.URL.Path))
	default:
		h.logger.Debug("User request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"detail": detail})
}

func statusFor(err error) int {
	switch users.ErrorType(err) {
	case users.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case users.ErrorTypeNotFound:
		return http.StatusNotFound
	case users.ErrorTypeBadInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func rootHandler(userService users.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":           "The health check is successful!",
			"mongodb_connected": userService.Available(),
		})
	}
}

// healthHandler probes dependencies live. It reports only; startup availability is unchanged.
func healthHandler(healthManager *health.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := healthManager.Check(c.Request.Context())

		checks := gin.H{}
		for name, err := range report.Results {
			if err != nil {
				checks[name] = err.Error()
			} else {
				checks[name] = "ok"
			}
		}

		if !report.Healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "checks": checks})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "checks": checks})
	}
}
