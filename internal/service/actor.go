package service

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/pata-backend/internal/models"
)

// Actor описывает того, кто выполняет операцию. nil означает анонимного посетителя.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin сообщает, обладает ли актор правами модератора.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// IsAnonymous сообщает, что запрос выполняется без сессии.
func (a *Actor) IsAnonymous() bool {
	return a == nil || a.UserID == uuid.Nil
}

// Owns сообщает, является ли актор владельцем публикации.
func (a *Actor) Owns(l *models.Listing) bool {
	return !a.IsAnonymous() && l.IsOwnedBy(a.UserID)
}

// PageResult страница результатов с метаданными пагинации.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func newPageResult[T any](items []T, total int, number, size int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       number,
		PageSize:   size,
		TotalPages: pages,
	}
}
