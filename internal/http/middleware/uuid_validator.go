package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.GET("/listings/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			abortWithAppError(c, apperror.New(apperror.ErrCodeMissingField, "falta el parámetro "+paramName))
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			abortWithAppError(c, apperror.New(apperror.ErrCodeInvalidInput, "el parámetro "+paramName+" debe ser un UUID válido"))
			return
		}

		c.Next()
	}
}
