package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

/*
ReportProblemRequest carries the multipart form fields for
POST /api/v1/problems. The photo itself arrives as a file part and is
handled separately by the controller.
*/
type ReportProblemRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=2000"`
	Category    string  `json:"category" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

/*
ProblemDTO is used by responses listing or returning a single problem.
*/
type ProblemDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Points      int        `json:"points"`
	Status      string     `json:"status"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	ReportedBy  uuid.UUID  `json:"reported_by"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SolvedAt    *time.Time `json:"solved_at,omitempty"`
}

func ProblemToDTO(p *models.Problem) ProblemDTO {
	return ProblemDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
		Points:      p.Points,
		Status:      string(p.Status),
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		PhotoURL:    p.PhotoURL,
		ReportedBy:  p.ReportedBy,
		AssignedTo:  p.AssignedTo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		SolvedAt:    p.SolvedAt,
	}
}

func ProblemsToDTOs(problems []*models.Problem) []ProblemDTO {
	out := make([]ProblemDTO, 0, len(problems))
	for _, p := range problems {
		out = append(out, ProblemToDTO(p))
	}
	return out
}

type ListProblemsResponse struct {
	Results []ProblemDTO `json:"results"`
	Total   int          `json:"total"`
}

/*
UpdateStatusRequest is the payload for PATCH /api/v1/problems/{id}/status.
*/
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned in_progress solved"`
}

type UpdateStatusResponse struct {
	Updated ProblemDTO `json:"updated"`
}

// ----------------------
// Leaderboards
// ----------------------

type UserRankDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Contributions int       `json:"contributions"`
}

type VolunteerRankDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
}

type LeaderboardsResponse struct {
	Users      []UserRankDTO      `json:"users"`
	Volunteers []VolunteerRankDTO `json:"volunteers"`
}
