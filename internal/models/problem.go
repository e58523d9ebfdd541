package models

import (
	"time"

	"github.com/google/uuid"
)

type ProblemStatusType string

const (
	ProblemStatusPending    ProblemStatusType = "pending"
	ProblemStatusAssigned   ProblemStatusType = "assigned"
	ProblemStatusInProgress ProblemStatusType = "in_progress"
	ProblemStatusSolved     ProblemStatusType = "solved"
)

type ProblemCategoryType string

const (
	CategoryWaste          ProblemCategoryType = "waste"
	CategoryAirPollution   ProblemCategoryType = "air_pollution"
	CategoryWaterPollution ProblemCategoryType = "water_pollution"
	CategoryNoisePollution ProblemCategoryType = "noise_pollution"
	CategoryOther          ProblemCategoryType = "other"
)

// CategoryPoints fixes the point value a problem carries for its whole
// lifetime. Unmapped categories fall back to DefaultCategoryPoints.
var CategoryPoints = map[ProblemCategoryType]int{
	CategoryWaste:          10,
	CategoryAirPollution:   15,
	CategoryWaterPollution: 20,
	CategoryNoisePollution: 10,
	CategoryOther:          5,
}

const DefaultCategoryPoints = 5

// ValidCategory reports whether c is one of the fixed category enum values.
func ValidCategory(c ProblemCategoryType) bool {
	_, ok := CategoryPoints[c]
	return ok
}

// PointsForCategory looks up the static category→points table.
func PointsForCategory(c ProblemCategoryType) int {
	if pts, ok := CategoryPoints[c]; ok {
		return pts
	}
	return DefaultCategoryPoints
}

// Problem is the reported issue record. Status walks the four-state
// machine pending → assigned → in_progress → solved; AssignedTo is set
// iff status has left pending and never changes after the first claim.
type Problem struct {
	Versioned

	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    ProblemCategoryType `json:"category"`
	Points      int                 `json:"points"`
	Status      ProblemStatusType   `json:"status"`
	Latitude    float64             `json:"latitude"`
	Longitude   float64             `json:"longitude"`
	PhotoURL    string              `json:"photo_url"`
	ReportedBy  uuid.UUID           `json:"reported_by"`
	AssignedTo  *uuid.UUID          `json:"assigned_to,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	SolvedAt  *time.Time `json:"solved_at,omitempty"`
}

func (p *Problem) GetID() string {
	return p.ID.String()
}
