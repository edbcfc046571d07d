package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	Environment string

	// Session
	SessionSecret  string
	SessionIdleTTL time.Duration

	// Allowed Origins
	AllowedOrigins string

	// WhatsApp ordering
	WhatsAppNumber string
	WhatsAppDomain string
	OrderTimezone  string
	OrderLocale    string

	// Cosmetic tracking
	PreparingAfter time.Duration
	DeliveryAfter  time.Duration

	// Cart snapshot storage: memory, postgres or gcs
	StorageBackend string

	// Database
	DatabaseURL string

	// GCP Storage
	GCPProjectID                 string
	GCPBucketName                string
	GoogleApplicationCredentials string
}

var AppConfig *Config

// LoadConfig loads environment variables into Config struct
func LoadConfig() *Config {
	// Load .env file if it exists (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = FromEnv(os.Getenv)

	if IsProduction() && AppConfig.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required in production")
	}
	if AppConfig.StorageBackend == "postgres" && AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for the postgres storage backend")
	}
	if AppConfig.StorageBackend == "gcs" && AppConfig.GCPBucketName == "" {
		log.Fatal("GCP_BUCKET_NAME is required for the gcs storage backend")
	}
	if AppConfig.WhatsAppNumber == "" {
		log.Println("⚠️  WHATSAPP_NUMBER not set, order submission is disabled")
	}

	log.Println("✅ Configuration loaded successfully")
	return AppConfig
}

// FromEnv builds a Config from lookup without validating it.
func FromEnv(lookup func(string) string) *Config {
	get := func(key, defaultValue string) string {
		if value := lookup(key); value != "" {
			return value
		}
		return defaultValue
	}

	return &Config{
		Port:                         get("PORT", "5500"),
		Environment:                  get("NODE_ENV", "development"),
		SessionSecret:                get("SESSION_SECRET", ""),
		SessionIdleTTL:               duration(get("SESSION_IDLE_TTL", ""), 2*time.Hour),
		AllowedOrigins:               get("ALLOWED_ORIGINS", ""),
		WhatsAppNumber:               get("WHATSAPP_NUMBER", ""),
		WhatsAppDomain:               get("WHATSAPP_DOMAIN", "wa.me"),
		OrderTimezone:                get("ORDER_TIMEZONE", "Asia/Bahrain"),
		OrderLocale:                  get("ORDER_LOCALE", "ar-BH"),
		PreparingAfter:               duration(get("PROGRESS_PREPARING_AFTER", ""), 2500*time.Millisecond),
		DeliveryAfter:                duration(get("PROGRESS_DELIVERY_AFTER", ""), 6500*time.Millisecond),
		StorageBackend:               get("STORAGE_BACKEND", "memory"),
		DatabaseURL:                  get("DATABASE_URL", ""),
		GCPProjectID:                 get("GCP_PROJECT_ID", ""),
		GCPBucketName:                get("GCP_BUCKET_NAME", ""),
		GoogleApplicationCredentials: get("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}
}

func duration(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Printf("⚠️  Invalid duration %q, using %s", s, defaultValue)
		return defaultValue
	}
	return d
}

// IsProduction returns true if running in production mode
func IsProduction() bool {
	return AppConfig.Environment == "production"
}

// IsDevelopment returns true if running in development mode
func IsDevelopment() bool {
	return AppConfig.Environment == "development" || AppConfig.Environment == ""
}
