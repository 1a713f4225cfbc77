package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/saeid-a/FitProBack/internal/config"
	"github.com/saeid-a/FitProBack/internal/database"
	"github.com/saeid-a/FitProBack/internal/i18n"
	"github.com/saeid-a/FitProBack/internal/logging"
	"github.com/saeid-a/FitProBack/internal/realtime"
	"github.com/saeid-a/FitProBack/internal/routes"
	"github.com/saeid-a/FitProBack/internal/services"
)

const shutdownTimeout = 20 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Setup("info", "development")
		fatal("load config", err)
	}

	var extra []slog.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			logging.Setup(cfg.LogLevel, cfg.AppEnv)
			fatal("init sentry", err)
		}
		defer sentry.Flush(2 * time.Second)
		extra = append(extra, logging.NewSentryHandler(nil))
	}
	logging.Setup(cfg.LogLevel, cfg.AppEnv, extra...)

	if cfg.DBUrl == "" {
		fatal("DB_URL is required", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, cfg.DBUrl)
	if err != nil {
		fatal("connect to database", err)
	}
	defer database.CloseDB()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		fatal("configure storage", err)
	}
	emailService := services.NewEmailService(newEmailSender(cfg))

	hub := realtime.NewHub()
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "FitPro API",
		BodyLimit:    110 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	app.Use(requestid.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	}

	routes.RegisterRoutes(app, routes.Dependencies{
		Config:  cfg,
		DB:      pool,
		Storage: storage,
		Email:   emailService,
		Hub:     hub,
	})

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "storage", cfg.StorageDriver, "email", cfg.EmailProvider)
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal("server failed", err)
	}

	emailService.Wait()
	slog.Info("server stopped")
}

// newStorage returns nil when the selected backend has no credentials;
// upload endpoints then answer 503.
func newStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	switch cfg.StorageDriver {
	case "s3":
		if !cfg.S3Configured() {
			slog.Warn("s3 storage not configured, uploads disabled")
			return nil, nil
		}
		return services.NewS3StorageService(ctx, services.S3StorageConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.StorageBucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			slog.Warn("supabase storage not configured, uploads disabled")
			return nil, nil
		}
		return services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.StorageBucket, cfg.SupabaseServiceKey), nil
	}
}

func newEmailSender(cfg *config.Config) services.EmailSender {
	switch cfg.EmailProvider {
	case "resend":
		if cfg.ResendAPIKey != "" {
			return services.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
		}
	case "smtp":
		if cfg.SMTPHost != "" {
			return services.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
		}
	}
	if cfg.EmailProvider != "log" {
		slog.Warn("email provider not configured, logging messages instead", "provider", cfg.EmailProvider)
	}
	return services.LogSender{}
}

// errorHandler answers errors that escaped the handlers, such as unknown
// routes or oversized bodies.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	key := i18n.Internal

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		switch status {
		case fiber.StatusNotFound:
			key = i18n.NotFound
		case fiber.StatusRequestEntityTooLarge:
			key = i18n.FileTooLarge
		case fiber.StatusInternalServerError:
		default:
			return c.Status(status).JSON(fiber.Map{"error": fe.Message})
		}
	}
	if status == fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": i18n.Message(c.Get(fiber.HeaderAcceptLanguage), key),
	})
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
