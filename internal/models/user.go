package models

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет уровень доступа учётной записи.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User описывает учётную запись пользователя или фонда.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	NationalID   string    `db:"national_id" json:"national_id"`
	Phone        string    `db:"phone" json:"phone"`
	Region       string    `db:"region" json:"region"`
	Commune      string    `db:"commune" json:"commune"`
	Social       string    `db:"social" json:"social"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin сообщает, обладает ли пользователь правами модератора.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
