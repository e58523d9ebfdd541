package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/saiyam0211/smart-urban-backend/internal/dtos"
	"github.com/saiyam0211/smart-urban-backend/internal/middleware"
	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/services"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// 8 MiB cap on report photo uploads.
const maxUploadBytes = 8 << 20

var problemsValidate = validator.New()

type ProblemsController struct {
	problemService services.ProblemService
	uploadDir      string
}

func NewProblemsController(ps services.ProblemService, uploadDir string) *ProblemsController {
	return &ProblemsController{problemService: ps, uploadDir: uploadDir}
}

// identityFromContext pulls the authenticated identity out of the
// request context. The middleware guarantees the value is set on
// protected routes.
func identityFromContext(r *http.Request) (uuid.UUID, error) {
	raw, _ := r.Context().Value(middleware.ContextKeyIdentityID).(string)
	if raw == "" {
		return uuid.Nil, errors.New("no identity in context")
	}
	return uuid.Parse(raw)
}

// ----------------------------------------------------------------
// POST /api/v1/problems  (multipart/form-data)
// ----------------------------------------------------------------
func (c *ProblemsController) ReportProblemHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reporterID, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Expected multipart form data", nil, err,
		)
		return
	}

	lat, latErr := strconv.ParseFloat(r.FormValue("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if latErr != nil || lngErr != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"latitude and longitude must be numeric", nil, nil,
		)
		return
	}

	req := dtos.ReportProblemRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Latitude:    lat,
		Longitude:   lng,
	}
	if err := problemsValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	photoURL, err := c.savePhoto(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Could not store the uploaded photo", nil, err,
		)
		return
	}

	problem, svcErr := c.problemService.Report(
		ctx,
		reporterID,
		req.Title,
		req.Description,
		models.ProblemCategoryType(req.Category),
		req.Latitude,
		req.Longitude,
		photoURL,
	)
	if svcErr != nil {
		switch {
		case errors.Is(svcErr, utils.ErrInvalidCategory):
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"Unknown problem category", nil, svcErr,
			)
		case errors.Is(svcErr, utils.ErrIdentityNotFound):
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Reporting user not found", nil, svcErr,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to report problem", nil, svcErr,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.ProblemToDTO(problem))
}

// savePhoto persists an optional "photo" file part under the upload
// directory and returns its public path. No part means no photo.
func (c *ProblemsController) savePhoto(r *http.Request) (string, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(c.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/%s", name), nil
}

// ----------------------------------------------------------------
// GET /api/v1/problems
// ----------------------------------------------------------------
func (c *ProblemsController) ListProblemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	problems, err := c.problemService.ListAll(ctx)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list problems", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.ListProblemsResponse{
		Results: dtos.ProblemsToDTOs(problems),
		Total:   len(problems),
	})
}

// ----------------------------------------------------------------
// PATCH /api/v1/problems/{id}/status
// ----------------------------------------------------------------
func (c *ProblemsController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, err := identityFromContext(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No identity in context", nil, err,
		)
		return
	}

	problemID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Problem id must be a UUID", nil, err,
		)
		return
	}

	var req dtos.UpdateStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for status update payload", nil, err,
		)
		return
	}
	if err := problemsValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	updated, svcErr := c.problemService.Transition(
		ctx, problemID, models.ProblemStatusType(req.Status), actorID,
	)
	if svcErr != nil {
		var conflict *utils.RowVersionConflictError
		switch {
		case errors.Is(svcErr, utils.ErrProblemNotFound):
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Problem not found", nil, svcErr,
			)
		case errors.Is(svcErr, utils.ErrAlreadyAssigned):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeAlreadyAssigned,
				"Problem is already assigned to a volunteer", nil, svcErr,
			)
		case errors.Is(svcErr, utils.ErrWrongStatus):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeWrongStatus,
				"Requested status change is not allowed from the current status", nil, svcErr,
			)
		case errors.Is(svcErr, utils.ErrNotAssignedActor):
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden,
				"Only the assigned volunteer may perform this status change", nil, svcErr,
			)
		case errors.As(svcErr, &conflict):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
				"Problem was modified concurrently. Refresh and retry.", conflict.Current, svcErr,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to update problem status", nil, svcErr,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.UpdateStatusResponse{
		Updated: dtos.ProblemToDTO(updated),
	})
}

// ----------------------------------------------------------------
// GET /api/v1/problems/leaderboards
// ----------------------------------------------------------------
func (c *ProblemsController) LeaderboardsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boards, err := c.problemService.Leaderboards(ctx)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to build leaderboards", nil, err,
		)
		return
	}

	resp := dtos.LeaderboardsResponse{
		Users:      make([]dtos.UserRankDTO, 0, len(boards.Users)),
		Volunteers: make([]dtos.VolunteerRankDTO, 0, len(boards.Volunteers)),
	}
	for _, u := range boards.Users {
		resp.Users = append(resp.Users, dtos.UserRankDTO{
			ID:            u.ID,
			Name:          u.Name,
			Contributions: u.Contributions,
		})
	}
	for _, v := range boards.Volunteers {
		resp.Volunteers = append(resp.Volunteers, dtos.VolunteerRankDTO{
			ID:     v.ID,
			Name:   v.Name,
			Points: v.Points,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
