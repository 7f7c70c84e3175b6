package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV says we are in production
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV string
	PORT   int

	// Database (remote backend). When these are absent or still hold
	// placeholder values, the server falls back to the local demo store.
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	// Local fallback store
	DATA_DIR string

	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string

	// Redis Configuration
	REDIS_URL string

	// Google sign-in. A placeholder client ID activates the demo
	// account-picker fallback instead of real token verification.
	GOOGLE_CLIENT_ID string

	// DigitalOcean Spaces (certificate artifact storage)
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string

	// SMTP (notification emails)
	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_USERNAME string
	SMTP_PASSWORD string
	SMTP_FROM     string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,

		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      os.Getenv("DB_HOST"),
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),

		DATA_DIR: dataDir,

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),

		REDIS_URL: os.Getenv("REDIS_URL"),

		GOOGLE_CLIENT_ID: os.Getenv("GOOGLE_CLIENT_ID"),

		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),

		SMTP_HOST:     os.Getenv("SMTP_HOST"),
		SMTP_PORT:     os.Getenv("SMTP_PORT"),
		SMTP_USERNAME: os.Getenv("SMTP_USERNAME"),
		SMTP_PASSWORD: os.Getenv("SMTP_PASSWORD"),
		SMTP_FROM:     os.Getenv("SMTP_FROM"),
	}

	return envVariables, nil
}

// placeholder values that ship in .env.example and must not select the
// remote backend or the real Google verifier
var placeholderPrefixes = []string{"your-", "your_", "changeme", "example", "xxx"}

func isPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// UseRemoteStore reports whether the remote PostgreSQL backend should be
// selected. All three core settings must be present and real; otherwise the
// server runs against the local file-backed demo store.
func (e *EnviornmentVariable) UseRemoteStore() bool {
	return !isPlaceholder(e.DB_HOST) && !isPlaceholder(e.DB_USER_NAME) && !isPlaceholder(e.DB_NAME)
}

// GoogleVerificationEnabled reports whether real Google ID token
// verification is configured. A missing or placeholder client ID enables the
// demo account-picker flow, which trusts unverified token claims.
func (e *EnviornmentVariable) GoogleVerificationEnabled() bool {
	return !isPlaceholder(e.GOOGLE_CLIENT_ID)
}

// SpacesConfigured reports whether certificate artifact storage is available.
func (e *EnviornmentVariable) SpacesConfigured() bool {
	return !isPlaceholder(e.DO_SPACES_KEY) && !isPlaceholder(e.DO_SPACES_SECRET) && !isPlaceholder(e.DO_SPACES_BUCKET)
}
