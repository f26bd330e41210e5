package models

import (
	"time"

	"github.com/google/uuid"
)

// PublicationType определяет вид публикации. Не меняется после создания.
type PublicationType string

const (
	PublicationAdoption PublicationType = "adoption"
	PublicationLost     PublicationType = "lost"
)

// Valid сообщает, является ли значение допустимым типом публикации.
func (t PublicationType) Valid() bool {
	return t == PublicationAdoption || t == PublicationLost
}

// ModerationState определяет публичную видимость публикации.
type ModerationState string

const (
	ModerationPending  ModerationState = "pending"
	ModerationApproved ModerationState = "approved"
	ModerationRejected ModerationState = "rejected"
)

// Valid сообщает, является ли значение допустимым состоянием модерации.
func (s ModerationState) Valid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// AdoptionState имеет смысл только для публикаций типа adoption.
type AdoptionState string

const (
	AdoptionAvailable AdoptionState = "available"
	AdoptionAdopted   AdoptionState = "adopted"
)

// LostState имеет смысл только для публикаций типа lost.
type LostState string

const (
	LostStateLost  LostState = "lost"
	LostStateFound LostState = "found"
)

// DefaultListingName подставляется, если имя питомца не передано.
const DefaultListingName = "Sin nombre"

// Contact хранит контактные данные публикации. Всегда присутствует.
type Contact struct {
	Name   string `db:"name" json:"name"`
	Phone  string `db:"phone" json:"phone"`
	Email  string `db:"email" json:"email"`
	Social string `db:"social" json:"social"`
}

// Listing описывает публикацию об адопции или о пропавшем питомце.
type Listing struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	PublicationType PublicationType `db:"publication_type" json:"publication_type"`
	ModerationState ModerationState `db:"moderation_state" json:"moderation_state"`
	RejectionReason string          `db:"rejection_reason" json:"rejection_reason"`
	ReviewerID      *uuid.UUID      `db:"reviewer_id" json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time      `db:"reviewed_at" json:"reviewed_at,omitempty"`
	OwnerID         *uuid.UUID      `db:"owner_id" json:"owner_id"`
	AdoptionState   AdoptionState   `db:"adoption_state" json:"adoption_state,omitempty"`
	LostState       LostState       `db:"lost_state" json:"lost_state,omitempty"`

	Name        string   `db:"name" json:"name"`
	Species     string   `db:"species" json:"species"`
	Breed       string   `db:"breed" json:"breed"`
	Sex         string   `db:"sex" json:"sex"`
	Age         string   `db:"age" json:"age"`
	Size        string   `db:"size" json:"size"`
	Microchip   bool     `db:"microchip" json:"microchip"`
	Vaccinated  bool     `db:"vaccinated" json:"vaccinated"`
	Dewormed    bool     `db:"dewormed" json:"dewormed"`
	Sterilized  bool     `db:"sterilized" json:"sterilized"`
	Health      string   `db:"health" json:"health"`
	Region      string   `db:"region" json:"region"`
	Commune     string   `db:"commune" json:"commune"`
	Description string   `db:"description" json:"description"`
	ImageURL    string   `db:"image_url" json:"image_url"`
	Location    string   `db:"location" json:"location"`
	Latitude    *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64 `db:"longitude" json:"longitude,omitempty"`

	Contact Contact `db:"contact" json:"contact"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsOwnedBy сообщает, принадлежит ли публикация указанному пользователю.
// Анонимная публикация не принадлежит никому.
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID != nil && userID != uuid.Nil && *l.OwnerID == userID
}

// IsApproved сообщает, видна ли публикация публично.
func (l *Listing) IsApproved() bool {
	return l.ModerationState == ModerationApproved
}

// ListingStats агрегирует счётчики для главной страницы.
type ListingStats struct {
	AdoptedCount  int `json:"adopted_count"`
	ReunitedCount int `json:"reunited_count"`
	TotalAdoption int `json:"total_adoption"`
	TotalLost     int `json:"total_lost"`
}
