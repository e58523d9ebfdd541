package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/saiyam0211/smart-urban-backend/internal/dtos"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

var usersValidate = validator.New()

type UsersController struct {
	userRepo repositories.UserRepository
}

func NewUsersController(ur repositories.UserRepository) *UsersController {
	return &UsersController{userRepo: ur}
}

// ----------------------------------------------------------------
// GET /api/v1/users/profile
// ----------------------------------------------------------------
func (c *UsersController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	user, err := c.userRepo.GetByID(ctx, id)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load profile", nil, err,
		)
		return
	}
	if user == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"User not found", nil, nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.UserToProfileDTO(user))
}

// ----------------------------------------------------------------
// PUT /api/v1/users/profile
// ----------------------------------------------------------------
func (c *UsersController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	var req dtos.UpdateUserProfileRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for profile update payload", nil, err,
		)
		return
	}
	if err := usersValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	updated, err := c.userRepo.UpdateProfileWithRetry(ctx, id, req.Name, req.Address)
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
			"User not found", nil, nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.UserToProfileDTO(updated))
}
