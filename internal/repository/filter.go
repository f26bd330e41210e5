package repository

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/pata-backend/internal/models"
)

// Параметры пагинации.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListingFilter описывает предикаты выборки публикаций.
// Пустые значения означают отсутствие фильтра.
type ListingFilter struct {
	PublicationType models.PublicationType
	ModerationState models.ModerationState
	Region          string
	Commune         string
	OwnerID         *uuid.UUID
	// IncludeAdopted включает уже пристроенных питомцев (только adoption).
	IncludeAdopted bool
	// IncludeFound включает уже найденных питомцев (только lost).
	IncludeFound bool
}

// Matches проверяет публикацию на соответствие фильтру.
// Используется хранилищами в памяти и тестами; SQL и Mongo строят то же условие запросом.
func (f ListingFilter) Matches(l *models.Listing) bool {
	if f.PublicationType != "" && l.PublicationType != f.PublicationType {
		return false
	}
	if f.ModerationState != "" && l.ModerationState != f.ModerationState {
		return false
	}
	if f.Region != "" && l.Region != f.Region {
		return false
	}
	if f.Commune != "" && l.Commune != f.Commune {
		return false
	}
	if f.OwnerID != nil && !l.IsOwnedBy(*f.OwnerID) {
		return false
	}
	if !f.IncludeAdopted && l.AdoptionState == models.AdoptionAdopted {
		return false
	}
	if !f.IncludeFound && l.LostState == models.LostStateFound {
		return false
	}
	return true
}

// Page задаёт страницу выборки. Нумерация страниц начинается с 1.
type Page struct {
	Number int
	Size   int
}

// Normalize подставляет значения по умолчанию. Запрошенный размер страницы не урезается:
// верхнюю границу MaxPageSize проверяет HTTP-слой.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset возвращает смещение для нормализованной страницы.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// Limit возвращает размер нормализованной страницы.
func (p Page) Limit() int {
	return p.Normalize().Size
}
