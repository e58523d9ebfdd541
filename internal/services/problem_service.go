package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

const leaderboardSize = 10

// Leaderboards bundles the two top-10 listings.
type Leaderboards struct {
	Users      []*models.User      `json:"users"`
	Volunteers []*models.Volunteer `json:"volunteers"`
}

// ---------------------------------------------------------------------
// ProblemService interface
// ---------------------------------------------------------------------
type ProblemService interface {
	// Report creates a pending problem with its category-derived point
	// value and bumps the reporter's contribution counter as one
	// logical unit of work.
	Report(
		ctx context.Context,
		reporterID uuid.UUID,
		title, description string,
		category models.ProblemCategoryType,
		latitude, longitude float64,
		photoURL string,
	) (*models.Problem, error)

	// Transition applies a requested status change on behalf of the
	// acting volunteer, enforcing the legal state machine and settling
	// points exactly once on the solved transition.
	Transition(
		ctx context.Context,
		problemID uuid.UUID,
		requested models.ProblemStatusType,
		actorID uuid.UUID,
	) (*models.Problem, error)

	ListAll(ctx context.Context) ([]*models.Problem, error)
	ListAssigned(ctx context.Context, volunteerID uuid.UUID) ([]*models.Problem, error)
	Leaderboards(ctx context.Context) (*Leaderboards, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------
type problemService struct {
	problemRepo   repositories.ProblemRepository
	userRepo      repositories.UserRepository
	volunteerRepo repositories.VolunteerRepository
}

func NewProblemService(
	problemRepo repositories.ProblemRepository,
	userRepo repositories.UserRepository,
	volunteerRepo repositories.VolunteerRepository,
) ProblemService {
	return &problemService{
		problemRepo:   problemRepo,
		userRepo:      userRepo,
		volunteerRepo: volunteerRepo,
	}
}

func (s *problemService) Report(
	ctx context.Context,
	reporterID uuid.UUID,
	title, description string,
	category models.ProblemCategoryType,
	latitude, longitude float64,
	photoURL string,
) (*models.Problem, error) {
	if !models.ValidCategory(category) {
		return nil, utils.ErrInvalidCategory
	}

	p := &models.Problem{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Category:    category,
		Points:      models.PointsForCategory(category),
		Status:      models.ProblemStatusPending,
		Latitude:    latitude,
		Longitude:   longitude,
		PhotoURL:    photoURL,
		ReportedBy:  reporterID,
	}

	if err := s.problemRepo.CreateWithReporter(ctx, p); err != nil {
		return nil, err
	}
	return s.problemRepo.GetByID(ctx, p.ID)
}

// Legal transitions. Everything not listed is rejected, including any
// repeat of a terminal solved transition.
//
//	pending     → assigned
//	assigned    → in_progress
//	assigned    → solved
//	in_progress → solved
func (s *problemService) Transition(
	ctx context.Context,
	problemID uuid.UUID,
	requested models.ProblemStatusType,
	actorID uuid.UUID,
) (*models.Problem, error) {
	p, err := s.problemRepo.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrProblemNotFound
	}

	var updated *models.Problem
	switch requested {
	case models.ProblemStatusAssigned:
		updated, err = s.problemRepo.AssignAtomic(ctx, problemID, actorID, p.RowVersion)
	case models.ProblemStatusInProgress:
		updated, err = s.problemRepo.StartAtomic(ctx, problemID, actorID, p.RowVersion)
	case models.ProblemStatusSolved:
		updated, err = s.problemRepo.SolveAtomic(ctx, problemID, actorID, p.RowVersion)
	default:
		return nil, utils.ErrWrongStatus
	}

	if err != nil {
		if errors.Is(err, utils.ErrRowVersionConflict) {
			// Hand the caller the freshest record when the re-read
			// works; the conflict itself is reported either way.
			latest, getErr := s.problemRepo.GetByID(ctx, problemID)
			if getErr != nil || latest == nil {
				return nil, utils.NewRowVersionConflictError(nil)
			}
			return nil, utils.NewRowVersionConflictError(latest)
		}
		return nil, err
	}
	if updated == nil {
		return nil, utils.ErrNoRowsUpdated
	}
	return updated, nil
}

func (s *problemService) ListAll(ctx context.Context) ([]*models.Problem, error) {
	return s.problemRepo.ListAll(ctx)
}

func (s *problemService) ListAssigned(ctx context.Context, volunteerID uuid.UUID) ([]*models.Problem, error) {
	return s.problemRepo.ListByAssignee(ctx, volunteerID)
}

func (s *problemService) Leaderboards(ctx context.Context) (*Leaderboards, error) {
	users, err := s.userRepo.ListTopByContributions(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.volunteerRepo.ListTopByPoints(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	return &Leaderboards{Users: users, Volunteers: volunteers}, nil
}
