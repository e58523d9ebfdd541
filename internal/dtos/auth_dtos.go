package dtos

// ----------------------
// OTP Generation
// ----------------------

type GenerateOTPRequest struct {
	Phone  string `json:"phone" validate:"omitempty,e164"`
	Email  string `json:"email" validate:"omitempty,email"`
	Method string `json:"method" validate:"required,oneof=email sms"`
}
type GenerateOTPResponse struct {
	Message string `json:"message"`
}

// ----------------------
// OTP Verification / Login
// ----------------------

type VerifyOTPRequest struct {
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Email    string `json:"email" validate:"omitempty,email"`
	Method   string `json:"method" validate:"required,oneof=email sms"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	UserType string `json:"userType" validate:"required,oneof=user volunteer"`
}
type VerifyOTPResponse struct {
	Token string         `json:"token"`
	User  AuthProfileDTO `json:"user"`
}

// AuthProfileDTO is the identity snapshot returned on login.
type AuthProfileDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}
