package models

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer is a resolver identity. Points accumulate when problems the
// volunteer claimed are transitioned to solved.
type Volunteer struct {
	Versioned

	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	Points         int         `json:"points"`
	ProblemsSolved []uuid.UUID `json:"problems_solved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Volunteer) GetID() string {
	return v.ID.String()
}
