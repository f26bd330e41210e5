package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Ошибки хранилища. Обе реализации (PostgreSQL и MongoDB) возвращают именно их.
var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrFoundationNotFound   = errors.New("foundation not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMediaNotFound        = errors.New("media not found")

	ErrDuplicate           = errors.New("duplicate key")
	ErrDuplicateEmail      = fmt.Errorf("%w: email", ErrDuplicate)
	ErrDuplicateNationalID = fmt.Errorf("%w: national_id", ErrDuplicate)
)

const pqUniqueViolation = "23505"

// mapUniqueViolation переводит нарушение уникального индекса PostgreSQL в ErrDuplicate*.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_national_id_key":
		return ErrDuplicateNationalID
	default:
		return ErrDuplicate
	}
}
