package store

import (
	"context"
	"errors"

	"sms-gateway/internal/models"
)

// ErrUserNotFound reports that no record exists for the given user ID.
var ErrUserNotFound = errors.New("user record not found")

// UserStore maps a user ID to its stored record.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (models.UserRecord, error)
}
