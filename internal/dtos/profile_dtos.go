package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

type UserProfileDTO struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone,omitempty"`
	Email            string      `json:"email,omitempty"`
	Address          string      `json:"address"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Contributions    int         `json:"contributions"`
	ProblemsReported []uuid.UUID `json:"problems_reported"`
	CreatedAt        time.Time   `json:"created_at"`
}

func UserToProfileDTO(u *models.User) UserProfileDTO {
	return UserProfileDTO{
		ID:               u.ID,
		Name:             u.Name,
		Phone:            u.Phone,
		Email:            u.Email,
		Address:          u.Address,
		Latitude:         u.Latitude,
		Longitude:        u.Longitude,
		Contributions:    u.Contributions,
		ProblemsReported: u.ProblemsReported,
		CreatedAt:        u.CreatedAt,
	}
}

type VolunteerProfileDTO struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	Points         int         `json:"points"`
	ProblemsSolved []uuid.UUID `json:"problems_solved"`
	CreatedAt      time.Time   `json:"created_at"`
}

func VolunteerToProfileDTO(v *models.Volunteer) VolunteerProfileDTO {
	return VolunteerProfileDTO{
		ID:             v.ID,
		Name:           v.Name,
		Phone:          v.Phone,
		Email:          v.Email,
		Points:         v.Points,
		ProblemsSolved: v.ProblemsSolved,
		CreatedAt:      v.CreatedAt,
	}
}

/*
UpdateUserProfileRequest is the payload for PUT /api/v1/users/profile.
Zero-value fields are left untouched.
*/
type UpdateUserProfileRequest struct {
	Name    string `json:"name" validate:"omitempty,max=100"`
	Address string `json:"address" validate:"omitempty,max=300"`
}

type UpdateVolunteerProfileRequest struct {
	Name string `json:"name" validate:"omitempty,max=100"`
}
