package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DBUrl       string
	AppEnv      string
	LogLevel    string
	CORSOrigins string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	StorageDriver     string
	StorageBucket     string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	EmailProvider string
	EmailFrom     string
	ResendAPIKey  string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string

	SentryDSN string

	FreeTraineeLimit         int
	PaymentAutoApprove       bool
	SubscriptionDateLocale   string
	ProfileLegacyURLFallback bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("app_env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("storage_driver", "supabase")
	v.SetDefault("storage_bucket", "documents")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("email_provider", "log")
	v.SetDefault("email_from", "FitPro <no-reply@fitpro.app>")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("free_trainee_limit", 5)
	v.SetDefault("payment_auto_approve", true)
	v.SetDefault("subscription_date_locale", "fa-IR")
	v.SetDefault("profile_legacy_url_fallback", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	secret := v.GetString("supabase_jwt_secret")
	if secret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}

	cfg := &Config{
		Port:                     v.GetString("port"),
		DBUrl:                    v.GetString("db_url"),
		AppEnv:                   normalizeEnv(v.GetString("app_env")),
		LogLevel:                 v.GetString("log_level"),
		CORSOrigins:              v.GetString("cors_origins"),
		SupabaseURL:              strings.TrimRight(v.GetString("supabase_url"), "/"),
		SupabaseAnonKey:          v.GetString("supabase_anon_key"),
		SupabaseServiceKey:       v.GetString("supabase_service_key"),
		SupabaseJWTSecret:        secret,
		StorageDriver:            strings.ToLower(v.GetString("storage_driver")),
		StorageBucket:            v.GetString("storage_bucket"),
		S3Endpoint:               v.GetString("s3_endpoint"),
		S3Region:                 v.GetString("s3_region"),
		S3AccessKeyID:            v.GetString("s3_access_key_id"),
		S3SecretAccessKey:        v.GetString("s3_secret_access_key"),
		EmailProvider:            strings.ToLower(v.GetString("email_provider")),
		EmailFrom:                v.GetString("email_from"),
		ResendAPIKey:             v.GetString("resend_api_key"),
		SMTPHost:                 v.GetString("smtp_host"),
		SMTPPort:                 v.GetInt("smtp_port"),
		SMTPUsername:             v.GetString("smtp_username"),
		SMTPPassword:             v.GetString("smtp_password"),
		SentryDSN:                v.GetString("sentry_dsn"),
		FreeTraineeLimit:         v.GetInt("free_trainee_limit"),
		PaymentAutoApprove:       v.GetBool("payment_auto_approve"),
		SubscriptionDateLocale:   v.GetString("subscription_date_locale"),
		ProfileLegacyURLFallback: v.GetBool("profile_legacy_url_fallback"),
	}

	switch cfg.StorageDriver {
	case "supabase", "s3":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	switch cfg.EmailProvider {
	case "log", "resend", "smtp":
	default:
		return nil, fmt.Errorf("unsupported EMAIL_PROVIDER %q", cfg.EmailProvider)
	}

	return cfg, nil
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsProduction() bool {
	return c != nil && (c.AppEnv == "production" || c.AppEnv == "staging")
}

// S3Configured reports whether the S3-compatible storage endpoint is usable.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}
