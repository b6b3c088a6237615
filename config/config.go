package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultTravelKmRate = 0.30

// Config holds all configuration parameters of the application.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Mileage reimbursement per kilometer, applied to travel report vehicles.
	TravelKmRate float64

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// KassenwartEmail receives bill and travel report creation notifications,
	// AdminEmail is bcc'd on them.
	KassenwartEmail string
	AdminEmail      string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration from environment variables. A .env file is
// loaded if present, missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	// The km rate is read once here and injected into the rate resolver, so a
	// changed environment cannot cause drift between call sites mid-process.
	kmRate := defaultTravelKmRate
	if kmRateStr := os.Getenv("TRAVEL_KM_RATE"); kmRateStr != "" {
		kmRate, err = strconv.ParseFloat(kmRateStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TRAVEL_KM_RATE environment variable: %w", err)
		}
		if kmRate < 0 {
			return nil, fmt.Errorf("TRAVEL_KM_RATE must not be negative, got %g", kmRate)
		}
	}

	smtpPort := 465
	if smtpPortStr := os.Getenv("SMTP_PORT"); smtpPortStr != "" {
		smtpPort, err = strconv.Atoi(smtpPortStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT environment variable: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		TravelKmRate: kmRate,

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom: os.Getenv("SMTP_FROM_EMAIL"),

		KassenwartEmail: os.Getenv("KASSENWART_EMAIL"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}
