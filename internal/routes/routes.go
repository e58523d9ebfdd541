package routes

const (
	// Health
	Health = "/health"

	// Auth endpoints (public)
	AuthGenerateOTP = "/auth/v1/generate-otp"
	AuthVerifyOTP   = "/auth/v1/verify-otp"

	// Problem endpoints
	ProblemsBase         = "/api/v1/problems"
	ProblemStatus        = "/api/v1/problems/{id}/status"
	ProblemsLeaderboards = "/api/v1/problems/leaderboards"

	// Profile endpoints
	UsersProfile          = "/api/v1/users/profile"
	VolunteersProfile     = "/api/v1/volunteers/profile"
	VolunteersAssignments = "/api/v1/volunteers/assigned-problems"

	// Analytics
	AnalyticsDashboard = "/api/v1/analytics/dashboard"

	// Static photo serving
	UploadsPrefix = "/uploads/"
)
