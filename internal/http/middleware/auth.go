package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// ContextActorKey ключ актора в gin.Context.
const ContextActorKey = "actor"

// Authenticator проверяет токен сессии.
type Authenticator interface {
	Authenticate(token string) (*service.Actor, error)
}

// AuthMiddleware требует валидный Bearer токен.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := auth.Authenticate(raw)
		if err != nil {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuthMiddleware пропускает анонимные запросы, но отклоняет невалидный токен.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		raw, ok := bearerToken(c)
		if !ok {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		actor, err := auth.Authenticate(raw)
		if err != nil {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// RequireRole пропускает только пользователей с указанной ролью.
// Должен стоять после AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := c.Get(ContextActorKey)
		a, ok := actor.(*service.Actor)
		if !ok || a == nil {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}
		if a.Role != role {
			abortWithAppError(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func setActor(c *gin.Context, actor *service.Actor) {
	c.Set(ContextActorKey, actor)
}

func abortWithAppError(c *gin.Context, err *apperror.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, gin.H{"error": err.Message, "code": err.Code})
}
