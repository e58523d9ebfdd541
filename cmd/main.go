package main

import (
	"net/http"
	"os"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/saiyam0211/smart-urban-backend/internal/app"
	"github.com/saiyam0211/smart-urban-backend/internal/config"
	"github.com/saiyam0211/smart-urban-backend/internal/controllers"
	"github.com/saiyam0211/smart-urban-backend/internal/middleware"
	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/notify"
	"github.com/saiyam0211/smart-urban-backend/internal/otp"
	"github.com/saiyam0211/smart-urban-backend/internal/repositories"
	"github.com/saiyam0211/smart-urban-backend/internal/routes"
	"github.com/saiyam0211/smart-urban-backend/internal/services"
	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Logger.Fatal("Failed to create upload directory:", err)
	}

	userRepo := repositories.NewUserRepository(application.DB)
	volunteerRepo := repositories.NewVolunteerRepository(application.DB)
	problemRepo := repositories.NewProblemRepository(application.DB)

	ledger := otp.NewLedger(cfg.VerificationCodeExpiry)
	gateway := notify.NewGateway(notify.Config{
		OrganizationName: cfg.OrganizationName,
		SendGridAPIKey:   cfg.SendGridAPIKey,
		SendGridFrom:     cfg.SendGridFromEmail,
		TwilioAccountSID: cfg.TwilioAccountSID,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		TwilioFrom:       cfg.TwilioFromPhone,
		SandboxMode:      cfg.SendGridSandboxMode,
	})

	tokenService := services.NewTokenService(cfg.RSAPrivateKey)
	authService := services.NewAuthService(
		ledger, gateway, userRepo, volunteerRepo, tokenService, cfg.TokenExpiry,
	)
	problemService := services.NewProblemService(problemRepo, userRepo, volunteerRepo)
	analyticsService := services.NewAnalyticsService(problemRepo, volunteerRepo)

	authController := controllers.NewAuthController(authService)
	problemsController := controllers.NewProblemsController(problemService, cfg.UploadDir)
	usersController := controllers.NewUsersController(userRepo)
	volunteersController := controllers.NewVolunteersController(volunteerRepo, problemService)
	analyticsController := controllers.NewAnalyticsController(analyticsService)
	healthController := controllers.NewHealthController(application)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthGenerateOTP, authController.GenerateOTPHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthVerifyOTP, authController.VerifyOTPHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ProblemsLeaderboards, problemsController.LeaderboardsHandler).Methods(http.MethodGet)
	router.PathPrefix(routes.UploadsPrefix).Handler(
		http.StripPrefix(routes.UploadsPrefix, http.FileServer(http.Dir(cfg.UploadDir))),
	).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.ProblemsBase, problemsController.ListProblemsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AnalyticsDashboard, analyticsController.DashboardHandler).Methods(http.MethodGet)

	userOnly := secured.NewRoute().Subrouter()
	userOnly.Use(middleware.RequireRole(string(models.RoleUser)))
	userOnly.HandleFunc(routes.ProblemsBase, problemsController.ReportProblemHandler).Methods(http.MethodPost)
	userOnly.HandleFunc(routes.UsersProfile, usersController.GetProfileHandler).Methods(http.MethodGet)
	userOnly.HandleFunc(routes.UsersProfile, usersController.UpdateProfileHandler).Methods(http.MethodPut)

	volunteerOnly := secured.NewRoute().Subrouter()
	volunteerOnly.Use(middleware.RequireRole(string(models.RoleVolunteer)))
	volunteerOnly.HandleFunc(routes.ProblemStatus, problemsController.UpdateStatusHandler).Methods(http.MethodPatch)
	volunteerOnly.HandleFunc(routes.VolunteersProfile, volunteersController.GetProfileHandler).Methods(http.MethodGet)
	volunteerOnly.HandleFunc(routes.VolunteersProfile, volunteersController.UpdateProfileHandler).Methods(http.MethodPut)
	volunteerOnly.HandleFunc(routes.VolunteersAssignments, volunteersController.ListAssignedProblemsHandler).Methods(http.MethodGet)

	c := cron.New()
	_, sweepErr := c.AddFunc("0 3 * * *", func() {
		removed := ledger.SweepExpired()
		if removed > 0 {
			utils.Logger.WithField("removed", removed).Info("Swept expired verification codes")
		}
	})
	if sweepErr != nil {
		utils.Logger.WithError(sweepErr).Fatal("Failed to schedule verification code sweep")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
