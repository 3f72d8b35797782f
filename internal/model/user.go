package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	CompanyName string
	CreatedAt   time.Time
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}
