package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/config"
	"github.com/ignatzorin/pata-backend/internal/http/handlers"
	"github.com/ignatzorin/pata-backend/internal/metrics"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/service"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:              env,
		AllowedOrigins:   []string{"*"},
		MediaStoragePath: "testdata",
		RateLimitLimit:   100,
		RateLimitPeriod:  time.Minute,
	}
}

func setup(t *testing.T, env string, dbErr error) (*gin.Engine, *service.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenManager("router-test-secret-0123456789abcdef", time.Hour)
	auth := service.NewAuthService(nil, tokens)
	registry := prometheus.NewRegistry()

	engine := SetupRouter(testConfig(env), Deps{
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": handlers.PingFunc(func(context.Context) error { return dbErr }),
		}),
		Seed:          &handlers.SeedHandler{},
		Authenticator: auth,
		Metrics:       metrics.New(registry),
		Gatherer:      registry,
	})
	return engine, tokens
}

func get(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	engine, _ := setup(t, "development", nil)
	w := get(engine, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"healthy"`)

	engine, _ = setup(t, "development", errors.New("down"))
	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/health", "").Code)
}

func TestRouter_Metrics(t *testing.T) {
	engine, _ := setup(t, "development", nil)
	get(engine, "/health", "")

	w := get(engine, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pata_http_requests_total")
}

func TestRouter_AdminRequiresRole(t *testing.T) {
	engine, tokens := setup(t, "development", nil)

	userToken, _, err := tokens.Issue(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(engine, "/api/admin/listings", "").Code)
	assert.Equal(t, http.StatusForbidden, get(engine, "/api/admin/listings", userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, get(engine, "/api/notifications", "").Code)
	assert.Equal(t, http.StatusBadRequest, get(engine, "/api/listings/not-a-uuid", "").Code)
}

func TestRouter_SeedOnlyInDevelopment(t *testing.T) {
	engine, _ := setup(t, "production", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/seed", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
