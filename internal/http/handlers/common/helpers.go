package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/middleware"
	"github.com/ignatzorin/pata-backend/internal/logger"
	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/repository"
	"github.com/ignatzorin/pata-backend/internal/service"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

var registerOnce sync.Once

// CurrentActor возвращает актора из контекста или nil для анонимного запроса.
func CurrentActor(c *gin.Context) *service.Actor {
	raw, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		return nil
	}
	actor, _ := raw.(*service.Actor)
	return actor
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, apperror.New(apperror.ErrCodeMissingField, fmt.Sprintf("falta el parámetro %s", paramName))
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeInvalidInput, fmt.Sprintf("el parámetro %s debe ser un UUID válido", paramName))
	}
	return parsed, nil
}

// BindStrict разбирает JSON-тело, отклоняя неизвестные поля, и валидирует binding-теги.
// Пустое тело считается пустым объектом.
func BindStrict(c *gin.Context, req interface{}) error {
	registerOnce.Do(func() {
		if err := validation.RegisterBindings(); err != nil {
			logger.Get().WithField("error", err).Error("no se pudieron registrar las validaciones")
		}
	})

	if c.Request.Body != nil {
		dec := json.NewDecoder(c.Request.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return decodeError(err)
		}
	}

	if err := binding.Validator.ValidateStruct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, "JSON mal formado")
	case errors.As(err, &typeErr):
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, fmt.Sprintf("tipo inválido para el campo %s", typeErr.Field))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, fmt.Sprintf("campo desconocido %s", field))
	}
	return apperror.Wrap(err, apperror.ErrCodeInvalidInput, "cuerpo de la solicitud inválido")
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Wrap(err, apperror.ErrCodeInvalidInput, "solicitud inválida")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.New(apperror.ErrCodeMissingField, fmt.Sprintf("falta el campo obligatorio %s", fe.Field()))
	case "rut":
		return apperror.ErrInvalidNationalID
	case "publication_type":
		return apperror.New(apperror.ErrCodeInvalidInput, "tipo de publicación inválido: debe ser adoption o lost")
	}
	return apperror.New(apperror.ErrCodeInvalidInput, fmt.Sprintf("valor inválido para el campo %s", fe.Field()))
}

// RespondAppError пишет ответ по ошибке приложения. Детали внутренних ошибок уходят только в лог.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code != apperror.ErrCodeInternal {
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)})
		return
	}

	logger.Get().WithFields(logrus.Fields{
		"error":  err,
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Error("Request error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "error interno del servidor",
		Code:  string(apperror.ErrCodeInternal),
	})
}

// ParsePage читает page и page_size. Явно переданное некорректное значение
// или page_size больше MaxPageSize дают INVALID_INPUT.
func ParsePage(c *gin.Context) (repository.Page, error) {
	number, err := positiveIntQuery(c, "page", repository.DefaultPage)
	if err != nil {
		return repository.Page{}, err
	}
	size, err := positiveIntQuery(c, "page_size", repository.DefaultPageSize)
	if err != nil {
		return repository.Page{}, err
	}
	if size > repository.MaxPageSize {
		return repository.Page{}, apperror.New(apperror.ErrCodeInvalidInput,
			fmt.Sprintf("page_size no puede superar %d", repository.MaxPageSize))
	}
	return repository.Page{Number: number, Size: size}.Normalize(), nil
}

// ParseListingFilter читает фильтры выборки публикаций из query.
func ParseListingFilter(c *gin.Context) (repository.ListingFilter, error) {
	f := repository.ListingFilter{
		PublicationType: models.PublicationType(strings.TrimSpace(c.Query("type"))),
		Region:          strings.TrimSpace(c.Query("region")),
		Commune:         strings.TrimSpace(c.Query("commune")),
	}

	if f.PublicationType != "" && !f.PublicationType.Valid() {
		return f, apperror.New(apperror.ErrCodeInvalidInput, "tipo de publicación inválido: debe ser adoption o lost")
	}

	if raw := strings.TrimSpace(c.Query("owner_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, apperror.New(apperror.ErrCodeInvalidInput, "owner_id debe ser un UUID válido")
		}
		f.OwnerID = &id
	}

	var err error
	if f.IncludeAdopted, err = boolQuery(c, "include_adopted"); err != nil {
		return f, err
	}
	if f.IncludeFound, err = boolQuery(c, "include_found"); err != nil {
		return f, err
	}
	return f, nil
}

func positiveIntQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return 0, apperror.New(apperror.ErrCodeInvalidInput, fmt.Sprintf("%s debe ser un entero mayor o igual a 1", key))
	}
	return v, nil
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperror.New(apperror.ErrCodeInvalidInput, fmt.Sprintf("%s debe ser true o false", key))
	}
	return v, nil
}
