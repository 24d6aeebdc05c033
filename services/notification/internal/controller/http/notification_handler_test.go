package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"threadboard/pkg/logger"
	"threadboard/pkg/middleware"
	"threadboard/pkg/queue"
	"threadboard/services/notification/internal/entity"
	"threadboard/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationUseCase struct {
	mock.Mock
}

func (m *MockNotificationUseCase) HandleEngagementEvent(ctx context.Context, event queue.EngagementEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockNotificationUseCase) GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationUseCase) ClearNotifications(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var _ usecase.NotificationUseCase = (*MockNotificationUseCase)(nil)

func setupNotificationTestRouter(uc *MockNotificationUseCase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewNotificationHandler(uc, logger.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
	})
	r.GET("/notifications", handler.GetNotifications)
	r.DELETE("/notifications", handler.ClearNotifications)
	return r
}

func TestGetNotifications_Unauthorized(t *testing.T) {
	uc := new(MockNotificationUseCase)
	router := setupNotificationTestRouter(uc, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Unauthorized")
	uc.AssertNotCalled(t, "GetNotifications", mock.Anything, mock.Anything)
}

func TestGetNotifications_Success(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "alice").Return([]entity.Notification{
		{Type: queue.EventPostLiked, Message: "bob liked your post", PostID: 1},
	}, nil)
	router := setupNotificationTestRouter(uc, "alice")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestGetNotifications_StoreError(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("GetNotifications", mock.Anything, "alice").Return(nil, errors.New("redis down"))
	router := setupNotificationTestRouter(uc, "alice")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestClearNotifications(t *testing.T) {
	uc := new(MockNotificationUseCase)
	uc.On("ClearNotifications", mock.Anything, "alice").Return(nil)
	router := setupNotificationTestRouter(uc, "alice")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}
