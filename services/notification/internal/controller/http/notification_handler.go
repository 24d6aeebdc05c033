package http

import (
	"net/http"

	"threadboard/pkg/logger"
	"threadboard/pkg/middleware"
	"threadboard/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// GetNotifications godoc
// @Summary      Engagement inbox of the current user
// @Description  Likes and replies on the user's posts and comments, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		middleware.AbortUnauthenticated(c)
		return
	}

	notifications, err := h.notificationUseCase.GetNotifications(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get notifications for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// ClearNotifications godoc
// @Summary      Empty the current user's inbox
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /notifications [delete]
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		middleware.AbortUnauthenticated(c)
		return
	}

	if err := h.notificationUseCase.ClearNotifications(c.Request.Context(), userID); err != nil {
		h.logger.Error("Failed to clear notifications for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}
