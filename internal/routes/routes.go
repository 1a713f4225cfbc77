package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saeid-a/FitProBack/internal/config"
	"github.com/saeid-a/FitProBack/internal/handlers"
	"github.com/saeid-a/FitProBack/internal/identity"
	"github.com/saeid-a/FitProBack/internal/middleware"
	"github.com/saeid-a/FitProBack/internal/models"
	"github.com/saeid-a/FitProBack/internal/realtime"
	"github.com/saeid-a/FitProBack/internal/repository"
	"github.com/saeid-a/FitProBack/internal/services"
	"github.com/saeid-a/FitProBack/internal/session"
)

// Dependencies are the long-lived pieces main owns: it starts the hub and
// drains the email queue on shutdown. Storage may be nil when no backend is
// configured; uploads then answer 503.
type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	Storage services.StorageService
	Email   *services.EmailService
	Hub     *realtime.Hub
}

func RegisterRoutes(app *fiber.App, deps Dependencies) {
	cfg, db := deps.Config, deps.DB

	profileRepo := repository.NewProfileRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	logRepo := repository.NewLogRepository(db)
	planRepo := repository.NewPlanRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	identityClient := identity.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	profileService := services.NewProfileService(db, profileRepo, measurementRepo, exerciseRepo, services.ProfileServiceConfig{
		FreeTraineeLimit:  cfg.FreeTraineeLimit,
		LegacyURLFallback: cfg.ProfileLegacyURLFallback,
	})
	mediaService := services.NewMediaService(profileService, documentRepo, deps.Storage)
	planService := services.NewPlanService(db, planRepo, profileRepo)
	trackingService := services.NewTrackingService(logRepo, planService, deps.Storage)
	dashboardService := services.NewDashboardService(profileRepo, logRepo, measurementRepo, planRepo)
	chatService := services.NewChatService(messageRepo, profileRepo, deps.Hub)
	paymentService := services.NewPaymentService(db, transactionRepo, profileRepo, deps.Email, services.PaymentServiceConfig{
		AutoApprove: cfg.PaymentAutoApprove,
		DateLocale:  cfg.SubscriptionDateLocale,
	})

	sessions := session.NewManager(cfg.SupabaseJWTSecret, identityClient, profileService)

	authHandler := handlers.NewAuthHandler(identityClient, profileService, deps.Email)
	profileHandler := handlers.NewProfileHandler(profileService, mediaService)
	coachHandler := handlers.NewCoachHandler(profileService, mediaService, dashboardService, deps.Email)
	planHandler := handlers.NewPlanHandler(planService, trackingService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)
	chatHandler := handlers.NewChatHandler(chatService, deps.Hub)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	emailHandler := handlers.NewEmailHandler(deps.Email)
	adminHandler := handlers.NewAdminHandler(profileService, mediaService, deps.Email)

	authRequired := middleware.AuthRequired(sessions)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Get("/oauth/:provider", authHandler.OAuthURL)

	api.Post("/process-payment", authRequired, paymentHandler.ProcessPayment)
	api.Post("/send-email", authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleCoach), emailHandler.SendEmail)

	admin := api.Group("/admin", authRequired, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/coaches/pending", adminHandler.ListPendingCoaches)
	admin.Put("/coaches/:id/verification", adminHandler.UpdateVerification)
	admin.Post("/set-role", adminHandler.SetRole)
	admin.Get("/transactions", paymentHandler.ListTransactions)

	v1 := api.Group("/v1", authRequired)

	v1.Get("/auth/me", authHandler.Me)
	v1.Post("/auth/signout", authHandler.SignOut)
	v1.Post("/auth/register-profile", authHandler.RegisterProfile)

	v1.Get("/profile", profileHandler.GetProfile)
	v1.Put("/profile", profileHandler.SaveProfile)
	v1.Post("/profile/avatar", profileHandler.UploadAvatar)
	v1.Post("/profile/onboarding-complete", profileHandler.CompleteOnboarding)
	v1.Get("/measurements", profileHandler.ListMeasurements)
	v1.Post("/measurements", profileHandler.AddMeasurement)
	v1.Get("/exercises", profileHandler.ListExercises)
	v1.Post("/exercises", profileHandler.AddExercise)

	v1.Get("/coaches", coachHandler.ListCoaches)
	v1.Post("/trainee/link", coachHandler.LinkTrainee)

	v1.Post("/plans", planHandler.SavePlan)
	v1.Get("/plans/active", planHandler.GetActivePlan)
	v1.Post("/plans/active/nutrition-day", planHandler.SeedNutritionDay)

	v1.Get("/logs", trackingHandler.GetLogs)
	v1.Put("/logs", trackingHandler.SaveLogs)
	v1.Get("/nutrition/summary", trackingHandler.NutritionSummary)
	v1.Post("/workout-videos", trackingHandler.UploadWorkoutVideo)
	v1.Post("/video-feedback", middleware.RequireRole(models.RoleCoach), trackingHandler.AddVideoFeedback)

	v1.Get("/messages/:peerId", chatHandler.History)
	v1.Post("/messages", chatHandler.Send)
	v1.Get("/ws", chatHandler.RequireUpgrade, websocket.New(chatHandler.HandleWebSocket))

	coach := v1.Group("/coach", middleware.RequireRole(models.RoleCoach))
	coach.Post("/certification", coachHandler.UploadCertificate)
	coach.Post("/invite-code", coachHandler.GenerateInviteCode)
	coach.Post("/invite", coachHandler.Invite)
	coach.Post("/requests/:id", coachHandler.ResolveRequest)
	coach.Get("/trainees", coachHandler.ListTrainees)
}
