package validation

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ignatzorin/pata-backend/internal/models"
)

// RegisterBindings регистрирует теги rut и publication_type в валидаторе gin.
// Повторный вызов безопасен.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterTags(v)
}

// RegisterTags регистрирует пользовательские теги на переданном валидаторе.
// Имена полей в ошибках берутся из json-тегов.
func RegisterTags(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidateRUT(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("publication_type", func(fl validator.FieldLevel) bool {
		return models.PublicationType(fl.Field().String()).Valid()
	})
}
