package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/saiyam0211/smart-urban-backend/internal/dtos"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/services"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

var volunteersValidate = validator.New()

type VolunteersController struct {
	volunteerRepo  repositories.VolunteerRepository
	problemService services.ProblemService
}

func NewVolunteersController(
	vr repositories.VolunteerRepository,
	ps services.ProblemService,
) *VolunteersController {
	return &VolunteersController{volunteerRepo: vr, problemService: ps}
}

// ----------------------------------------------------------------
// GET /api/v1/volunteers/profile
// ----------------------------------------------------------------
func (c *VolunteersController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	volunteer, err := c.volunteerRepo.GetByID(ctx, id)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load profile", nil, err,
		)
		return
	}
	if volunteer == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Volunteer not found", nil, nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.VolunteerToProfileDTO(volunteer))
}

// ----------------------------------------------------------------
// PUT /api/v1/volunteers/profile
// ----------------------------------------------------------------
func (c *VolunteersController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	var req dtos.UpdateVolunteerProfileRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for profile update payload", nil, err,
		)
		return
	}
	if err := volunteersValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	updated, err := c.volunteerRepo.UpdateProfileWithRetry(ctx, id, req.Name)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to update profile", nil, err,
		)
		return
	}
	if updated == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Volunteer not found", nil, nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.VolunteerToProfileDTO(updated))
}

// ----------------------------------------------------------------
// GET /api/v1/volunteers/assigned-problems
// ----------------------------------------------------------------
func (c *VolunteersController) ListAssignedProblemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	problems, err := c.problemService.ListAssigned(ctx, id)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list assigned problems", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.ListProblemsResponse{
		Results: dtos.ProblemsToDTOs(problems),
		Total:   len(problems),
	})
}
