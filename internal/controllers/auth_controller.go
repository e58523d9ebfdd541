package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/saiyam0211/smart-urban-backend/internal/dtos"
	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/notify"
	"github.com/saiyam0211/smart-urban-backend/internal/services"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

var authValidate = validator.New()

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(as services.AuthService) *AuthController {
	return &AuthController{authService: as}
}

func channelFromMethod(method string) notify.Channel {
	if method == "sms" {
		return notify.ChannelSMS
	}
	return notify.ChannelEmail
}

// ----------------------------------------------------------------
// POST /auth/v1/generate-otp
// ----------------------------------------------------------------
func (c *AuthController) GenerateOTPHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.GenerateOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for generate-otp payload", nil, err,
		)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	sentTo, err := c.authService.RequestCode(ctx, req.Phone, req.Email, channelFromMethod(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingContact),
			errors.Is(err, utils.ErrInvalidEmail),
			errors.Is(err, utils.ErrInvalidPhone),
			errors.Is(err, utils.ErrInvalidChannel):
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"A valid contact matching the requested method is required", nil, err,
			)
		case errors.Is(err, utils.ErrExternalServiceFailure):
			utils.RespondErrorWithCode(
				w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
				"Could not deliver the verification code. Please try again.", nil, err,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to generate verification code", nil, err,
			)
		}
		return
	}

	utils.Logger.WithField("sentTo", sentTo).Info("Verification code dispatched")
	utils.RespondWithJSON(w, http.StatusOK, dtos.GenerateOTPResponse{
		Message: "Verification code sent",
	})
}

// ----------------------------------------------------------------
// POST /auth/v1/verify-otp
// ----------------------------------------------------------------
func (c *AuthController) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for verify-otp payload", nil, err,
		)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", err.Error(), nil,
		)
		return
	}

	result, err := c.authService.VerifyAndLogin(
		ctx,
		req.Phone,
		req.Email,
		channelFromMethod(req.Method),
		req.OTP,
		models.RoleType(req.UserType),
		req.Name,
	)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNoPendingCode):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeNoPendingCode,
				"No verification code is pending for this contact. Request a new one.", nil, err,
			)
		case errors.Is(err, utils.ErrCodeExpired):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeCodeExpired,
				"Verification code expired. Request a new one.", nil, err,
			)
		case errors.Is(err, utils.ErrCodeMismatch):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeCodeMismatch,
				"Incorrect verification code", nil, err,
			)
		case errors.Is(err, utils.ErrAttemptsExhausted):
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeAttemptsExhausted,
				"Too many incorrect attempts. Request a new code.", nil, err,
			)
		case errors.Is(err, utils.ErrMissingContact),
			errors.Is(err, utils.ErrInvalidChannel):
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"A valid contact matching the requested method is required", nil, err,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to verify code", nil, err,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.VerifyOTPResponse{
		Token: result.Token,
		User: dtos.AuthProfileDTO{
			ID:    result.ID.String(),
			Name:  result.Name,
			Email: result.Email,
			Phone: result.Phone,
			Role:  string(result.Role),
		},
	})
}
