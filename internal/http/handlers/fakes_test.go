package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/goroutine"
	"github.com/ignatzorin/pata-backend/internal/http/middleware"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/service"
)

type memListings struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Listing
}

func newMemListings() *memListings {
	return &memListings{items: map[uuid.UUID]models.Listing{}}
}

func (m *memListings) Create(_ context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[l.ID] = *l
	return nil
}

func (m *memListings) GetByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.items[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return &l, nil
}

func (m *memListings) Update(_ context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[l.ID]; !ok {
		return repository.ErrListingNotFound
	}
	m.items[l.ID] = *l
	return nil
}

func (m *memListings) matching(f repository.ListingFilter) []models.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Listing
	for _, l := range m.items {
		l := l
		if f.Matches(&l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (m *memListings) List(_ context.Context, f repository.ListingFilter, page repository.Page) ([]models.Listing, int, error) {
	all := m.matching(f)
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (m *memListings) Count(_ context.Context, f repository.ListingFilter) (int, error) {
	return len(m.matching(f)), nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
		if existing.NationalID == u.NationalID {
			return repository.ErrDuplicateNationalID
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) GetByNationalID(_ context.Context, nationalID string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.NationalID == nationalID })
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string) error { return nil }

// testEnv поднимает хэндлеры поверх фейковых хранилищ и настоящего TokenManager.
type testEnv struct {
	t        *testing.T
	engine   *gin.Engine
	auth     *service.AuthService
	tokens   *service.TokenManager
	users    *memUsers
	listings *memListings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUsers()
	listings := newMemListings()
	tokens := service.NewTokenManager("handlers-test-secret-0123456789abcdef", time.Hour)
	auth := service.NewAuthService(users, tokens)
	listingService := service.NewListingService(listings, users, noopMailer{}, nil, goroutine.Inline{}, nil)

	authHandler := NewAuthHandler(auth)
	listingHandler := NewListingHandler(listingService)
	adminHandler := NewAdminHandler(listingService)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	requireAuth := middleware.AuthMiddleware(auth)
	optionalAuth := middleware.OptionalAuthMiddleware(auth)

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/me", requireAuth, authHandler.Me)

	r.GET("/listings", listingHandler.List)
	r.GET("/listings/type/:type", listingHandler.ListByType)
	r.GET("/listings/stats", listingHandler.Stats)
	r.GET("/listings/mine", requireAuth, listingHandler.ListMine)
	r.GET("/listings/:id", optionalAuth, listingHandler.Get)
	r.POST("/listings", optionalAuth, listingHandler.Create)
	r.PATCH("/listings/:id/adopt", requireAuth, listingHandler.MarkAdopted)
	r.PATCH("/listings/:id/found", requireAuth, listingHandler.MarkFound)
	r.POST("/listings/:id/contact", listingHandler.Contact)

	admin := r.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin))
	admin.GET("/listings", adminHandler.ListListings)
	admin.PATCH("/listings/:id/approve", adminHandler.Approve)
	admin.PATCH("/listings/:id/reject", adminHandler.Reject)

	return &testEnv{t: t, engine: r, auth: auth, tokens: tokens, users: users, listings: listings}
}

// tokenFor создаёт пользователя напрямую в хранилище и выдаёт ему токен.
func (e *testEnv) tokenFor(role models.Role) (uuid.UUID, string) {
	e.t.Helper()
	u := &models.User{
		ID:         uuid.New(),
		Name:       "Usuario",
		Email:      uuid.NewString() + "@pata.cl",
		NationalID: uuid.NewString(),
		Role:       role,
	}
	require.NoError(e.t, e.users.Create(context.Background(), u))
	token, _, err := e.tokens.Issue(u)
	require.NoError(e.t, err)
	return u.ID, token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, w).Code
}

