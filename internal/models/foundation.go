package models

import (
	"time"

	"github.com/google/uuid"
)

// Foundation описывает профиль фонда (приюта), привязанный к пользователю.
type Foundation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Website   string    `db:"website" json:"website"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	About     string    `db:"about" json:"about"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
