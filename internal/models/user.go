package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleType discriminates the two identity kinds that can authenticate.
type RoleType string

const (
	RoleUser      RoleType = "user"
	RoleVolunteer RoleType = "volunteer"
)

// DefaultUserAddress is the placeholder stored for lazily-provisioned
// users until they complete profile setup.
const DefaultUserAddress = "Default Address"

// User is a reporter identity. Identified by phone OR email (at least
// one present). Created lazily on first successful OTP verification.
type User struct {
	Versioned

	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone,omitempty"`
	Email            string      `json:"email,omitempty"`
	Address          string      `json:"address"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Contributions    int         `json:"contributions"`
	ProblemsReported []uuid.UUID `json:"problems_reported"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}
