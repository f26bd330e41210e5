package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/service"
)

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationRepo) List(ctx context.Context, userID uuid.UUID, page repository.Page, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, page, unreadOnly)
	items, _ := args.Get(0).([]models.Notification)
	return items, args.Error(1)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func notificationRouter(repo *mockNotificationRepo, actor *service.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(service.NewNotificationService(repo))
	r := gin.New()
	r.Use(withActor(actor))
	r.GET("/notifications", h.ListNotifications)
	r.GET("/notifications/unread/count", h.GetUnreadCount)
	r.PUT("/notifications/read-all", h.MarkAllAsRead)
	r.PUT("/notifications/:id/read", h.MarkAsRead)
	return r
}

func TestNotificationHandler(t *testing.T) {
	userID := uuid.New()
	actor := &service.Actor{UserID: userID, Role: models.RoleUser}
	repo := new(mockNotificationRepo)
	r := notificationRouter(repo, actor)

	repo.On("List", mock.Anything, userID, repository.Page{Number: 2, Size: 5}, true).
		Return([]models.Notification{{ID: uuid.New(), UserID: userID}}, nil)
	repo.On("CountUnread", mock.Anything, userID).Return(3, nil)
	repo.On("MarkAllAsRead", mock.Anything, userID).Return(nil)

	missing := uuid.New()
	repo.On("MarkAsRead", mock.Anything, userID, missing).Return(repository.ErrNotificationNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?page=2&page_size=5&unread_only=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.NotificationListResponse](t, w)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Page)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/unread/count", nil))
	assert.Equal(t, 3, decode[dto.UnreadCountResponse](t, w).Count)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/notifications/read-all", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/notifications/"+missing.String()+"/read", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	repo.AssertExpectations(t)
}

func TestNotificationHandler_Anonymous(t *testing.T) {
	r := notificationRouter(new(mockNotificationRepo), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
