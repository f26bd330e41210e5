package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength         = 2
	MaxNameLength         = 100
	MaxPetNameLength      = 60
	MaxDescriptionLength  = 5000
	MaxShortFieldLength   = 100
	MaxLocationLength     = 200
	MaxReasonLength       = 1000
	MaxMessageLength      = 5000
	MaxExternalLinkLength = 500
	MaxAboutLength        = 3000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9 ()-]{8,20}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s debe tener al menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s no puede superar %d caracteres", fieldName, max)
	}
	return nil
}

// NormalizeEmail приводит email к каноническому виду (нижний регистр, без пробелов).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("el correo es obligatorio")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("formato de correo inválido")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("la parte local del correo debe tener entre 1 y 64 caracteres")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("el dominio del correo debe tener entre 1 y 255 caracteres")
	}

	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("la parte local del correo contiene caracteres no permitidos")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("el dominio del correo tiene un formato inválido")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s no puede estar vacío", fieldName)
	}
	return nil
}

// ValidateName проверяет отображаемое имя пользователя или фонда.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("el nombre es obligatorio")
	}
	return ValidateLength("el nombre", name, MinNameLength, MaxNameLength)
}

// ValidatePhone проверяет телефон: цифры, пробелы, скобки и дефисы, опционально +.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("el teléfono es obligatorio")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("formato de teléfono inválido")
	}
	return nil
}

// ValidateOptionalPhone проверяет телефон, если он указан.
func ValidateOptionalPhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	return ValidatePhone(phone)
}

// ValidateOptionalEmail проверяет email, если он указан.
func ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}

// ValidateCoordinates проверяет пару широта/долгота. Обе должны быть указаны вместе.
func ValidateCoordinates(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return fmt.Errorf("la latitud y la longitud deben indicarse juntas")
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("la latitud debe estar entre -90 y 90")
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("la longitud debe estar entre -180 y 180")
	}
	return nil
}

// ValidateExternalLink проверяет внешнюю ссылку.
func ValidateExternalLink(link string) error {
	linkStr := strings.TrimSpace(link)
	if linkStr == "" {
		return nil
	}

	if err := ValidateLength("el enlace", linkStr, 0, MaxExternalLinkLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(linkStr)
	if err != nil {
		return fmt.Errorf("formato de URL inválido")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("el enlace debe comenzar con http:// o https://")
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("el enlace debe contener un dominio")
	}
	return nil
}

// ValidateMessageContent проверяет текст сообщения владельцу. Пустое сообщение допустимо.
func ValidateMessageContent(content string) error {
	return ValidateLength("el mensaje", strings.TrimSpace(content), 0, MaxMessageLength)
}
