package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/pata-backend/internal/models"
	"github.com/ignatzorin/pata-backend/internal/service"
	"github.com/ignatzorin/pata-backend/internal/validation"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	NationalID string      `json:"national_id"`
	Phone      string      `json:"phone"`
	Region     string      `json:"region"`
	Commune    string      `json:"commune"`
	Social     string      `json:"social"`
	Role       models.Role `json:"role"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewUserResponse builds the public view of a user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		NationalID: validation.FormatRUT(u.NationalID),
		Phone:      u.Phone,
		Region:     u.Region,
		Commune:    u.Commune,
		Social:     u.Social,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAuthResponse builds the response from the service result
func NewAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:      NewUserResponse(res.User),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
}

// UnreadCountResponse represents the unread notifications counter
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// NotificationListResponse wraps a page of notifications
type NotificationListResponse struct {
	Items    []models.Notification `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}
