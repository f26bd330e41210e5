package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/models"
)

func registerBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Ana Pérez",
		"email":       "Ana@Pata.cl",
		"password":    "Patita123",
		"national_id": "12.345.678-5",
		"phone":       "+56 9 1234 5678",
		"region":      "Valparaíso",
	}
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/auth/register", "", registerBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	registered := decode[dto.AuthResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@pata.cl", registered.User.Email)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.Equal(t, "12.345.678-5", registered.User.NationalID)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@pata.cl", "password": "Patita123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loggedIn := decode[dto.AuthResponse](t, w)

	w = env.do(http.MethodGet, "/auth/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.UserResponse](t, w)
	assert.Equal(t, registered.User.ID, me.ID)
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		status int
		code   string
	}{
		{
			name:   "missing field",
			mutate: func(b map[string]interface{}) { delete(b, "phone") },
			status: http.StatusBadRequest,
			code:   "MISSING_FIELD",
		},
		{
			name:   "bad check digit",
			mutate: func(b map[string]interface{}) { b["national_id"] = "12.345.678-9" },
			status: http.StatusBadRequest,
			code:   "INVALID_NATIONAL_ID",
		},
		{
			name:   "unknown field",
			mutate: func(b map[string]interface{}) { b["role"] = "admin" },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "weak password",
			mutate: func(b map[string]interface{}) { b["password"] = "corta" },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := registerBody()
			tt.mutate(body)
			w := env.do(http.MethodPost, "/auth/register", "", body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/auth/register", "", registerBody()).Code)

	body := registerBody()
	body["national_id"] = "11.111.111-1"
	w := env.do(http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))
}

func TestAuthHandler_LoginUniformFailure(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/auth/register", "", registerBody()).Code)

	wrongPassword := env.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@pata.cl", "password": "otra1234"})
	unknownEmail := env.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "nadie@pata.cl", "password": "Patita123"})
	emptyBody := env.do(http.MethodPost, "/auth/login", "", "{}")

	for _, w := range []interface{ Result() *http.Response }{wrongPassword, unknownEmail, emptyBody} {
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/auth/me", "no-es-un-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}
