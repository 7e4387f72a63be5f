package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}

	ObjectStore struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	Portal struct {
		BaseURL  string
		Secret   string
		TokenTTL time.Duration
	}

	// Reminders holds the knobs for the reminder policy and sweep. They are
	// read once here and handed to the policy at construction, never consulted
	// from process-wide state at decision time.
	Reminders struct {
		SweepEnabled    bool
		SweepCronSpec   string
		CooldownHours   int
		DefaultLeadDays int
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "greenroom")
	config.DB.Password = getEnv("DB_PASSWORD", "greenroom_password")
	config.DB.Name = getEnv("DB_NAME", "greenroom_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.SMTP.Host = getEnv("SMTP_HOST", "localhost")
	config.SMTP.Port = getEnvAsInt("SMTP_PORT", 587)
	config.SMTP.Username = getEnv("SMTP_USERNAME", "")
	config.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	config.SMTP.From = getEnv("SMTP_FROM", "no-reply@greenroom.app")

	config.ObjectStore.Endpoint = getEnv("OBJECT_STORE_ENDPOINT", "localhost:9000")
	config.ObjectStore.AccessKey = getEnv("OBJECT_STORE_ACCESS_KEY", "minioadmin")
	config.ObjectStore.SecretKey = getEnv("OBJECT_STORE_SECRET_KEY", "minioadmin")
	config.ObjectStore.Bucket = getEnv("OBJECT_STORE_BUCKET", "speaker-materials")
	config.ObjectStore.UseSSL = getEnvAsBool("OBJECT_STORE_USE_SSL", false)

	config.Portal.BaseURL = getEnv("PORTAL_BASE_URL", "http://localhost:3000")
	config.Portal.Secret = getEnv("PORTAL_TOKEN_SECRET", "dev-portal-secret")
	config.Portal.TokenTTL = time.Duration(getEnvAsInt("PORTAL_TOKEN_TTL_HOURS", 168)) * time.Hour

	config.Reminders.SweepEnabled = getEnvAsBool("REMINDER_SWEEP_ENABLED", true)
	config.Reminders.SweepCronSpec = getEnv("REMINDER_SWEEP_CRON", "0 * * * *")
	config.Reminders.CooldownHours = getEnvAsInt("REMINDER_COOLDOWN_HOURS", 24)
	config.Reminders.DefaultLeadDays = getEnvAsInt("REMINDER_DEFAULT_LEAD_DAYS", 14)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.LogLevel = getEnv("LOG_LEVEL", "info")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
