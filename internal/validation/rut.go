package validation

import (
	"errors"
	"strconv"
	"strings"
)

// MinRUTLength минимальная длина нормализованного RUT (тело + контрольный символ).
const MinRUTLength = 8

var (
	ErrInvalidRUTFormat     = errors.New("formato de RUT inválido")
	ErrInvalidRUTCheckDigit = errors.New("dígito verificador del RUT inválido")
)

// NormalizeRUT убирает точки, дефисы и пробелы по краям и приводит
// контрольный символ к верхнему регистру. Идемпотентна.
func NormalizeRUT(raw string) string {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(strings.TrimSpace(s))
}

// RUTCheckDigit вычисляет контрольный символ для тела RUT из цифр.
// Веса 2..7 применяются циклически начиная с младшей цифры.
func RUTCheckDigit(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return "", false
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	switch expected := 11 - sum%11; expected {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(expected), true
	}
}

// CheckRUT проверяет RUT и сообщает причину отказа.
func CheckRUT(raw string) error {
	rut := NormalizeRUT(raw)
	if len(rut) < MinRUTLength {
		return ErrInvalidRUTFormat
	}

	body, dv := rut[:len(rut)-1], rut[len(rut)-1:]
	expected, ok := RUTCheckDigit(body)
	if !ok {
		return ErrInvalidRUTFormat
	}
	if dv != expected {
		return ErrInvalidRUTCheckDigit
	}
	return nil
}

// ValidateRUT сообщает, является ли строка корректным чилийским RUT.
func ValidateRUT(raw string) bool {
	return CheckRUT(raw) == nil
}

// FormatRUT возвращает отображаемую форму вида 12.345.678-5.
// Некорректный ввод возвращается нормализованным без изменений.
func FormatRUT(raw string) string {
	rut := NormalizeRUT(raw)
	if len(rut) < 2 {
		return rut
	}
	body, dv := rut[:len(rut)-1], rut[len(rut)-1:]

	var b strings.Builder
	lead := len(body) % 3
	if lead > 0 {
		b.WriteString(body[:lead])
	}
	for i := lead; i < len(body); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteString(dv)
	return b.String()
}
