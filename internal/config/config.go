package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Mail       MailConfig
	WhatsApp   WhatsAppConfig
	Classifier ClassifierConfig
	Storage    StorageConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret      string
	SessionDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// MailConfig holds SMTP configuration for outbound email
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// WhatsAppConfig holds messaging transport configuration
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	APIBase    string
	Timeout    time.Duration
}

// ClassifierConfig holds the urgency classifier configuration
type ClassifierConfig struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// StorageConfig holds the evidence object store configuration
type StorageConfig struct {
	UploadURL string
	APIKey    string
	Timeout   time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "5000"),
		Database:   loadDatabaseConfig(appMode),
		JWT:        loadJWTConfig(appMode),
		Cookie:     loadCookieConfig(appMode),
		Mail:       loadMailConfig(),
		WhatsApp:   loadWhatsAppConfig(),
		Classifier: loadClassifierConfig(),
		Storage:    loadStorageConfig(),
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "5432"),
		User:     getEnv(prefix+"DB_USER", "postgres"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "hostel_grievance"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}
}

// loadJWTConfig loads session token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	sessionDays, _ := strconv.Atoi(getEnv("SESSION_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:      getEnv(prefix+"JWT_SECRET", "default_secret"),
		SessionDays: sessionDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadMailConfig loads SMTP config
func loadMailConfig() MailConfig {
	return MailConfig{
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnv("SMTP_PORT", "587"),
		Username: getEnv("GMAIL_USER", ""),
		Password: getEnv("GMAIL_PASS", ""),
		From:     getEnv("MAIL_FROM", ""),
	}
}

// loadWhatsAppConfig loads messaging transport config
func loadWhatsAppConfig() WhatsAppConfig {
	timeoutSec, _ := strconv.Atoi(getEnv("WHATSAPP_TIMEOUT_SEC", "10"))

	return WhatsAppConfig{
		AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		FromNumber: getEnv("TWILIO_WHATSAPP_FROM", ""),
		APIBase:    getEnv("TWILIO_API_BASE", "https://api.twilio.com"),
		Timeout:    time.Duration(timeoutSec) * time.Second,
	}
}

// loadClassifierConfig loads urgency classifier config
func loadClassifierConfig() ClassifierConfig {
	timeoutSec, _ := strconv.Atoi(getEnv("CLASSIFIER_TIMEOUT_SEC", "8"))

	return ClassifierConfig{
		Host:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		Model:   getEnv("CLASSIFIER_MODEL", "llama3.2"),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// loadStorageConfig loads evidence store config
func loadStorageConfig() StorageConfig {
	timeoutSec, _ := strconv.Atoi(getEnv("STORAGE_TIMEOUT_SEC", "15"))

	return StorageConfig{
		UploadURL: getEnv("STORAGE_UPLOAD_URL", ""),
		APIKey:    getEnv("STORAGE_API_KEY", ""),
		Timeout:   time.Duration(timeoutSec) * time.Second,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://grievance.vnit.ac.in"
	}
	return origins
}
