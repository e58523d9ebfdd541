package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saiyam0211/smart-urban-backend/internal/utils"
)

// Config holds all application configuration, including secrets.
type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	DBUrl            string

	TokenExpiry            time.Duration
	VerificationCodeExpiry time.Duration

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string

	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridSandboxMode bool

	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey

	UploadDir string
}

// Defaults for time-based configuration.
const (
	OrganizationName              = "Urban Resource Management"
	DefaultTokenExpiry            = 24 * time.Hour
	DefaultVerificationCodeExpiry = 5 * time.Minute
	DefaultUploadDir              = "uploads"
)

// LoadConfig reads everything from the environment and returns a *Config.
// Missing required values are fatal: the process cannot run without them.
func LoadConfig() *Config {
	cfg := &Config{
		OrganizationName:       OrganizationName,
		AppName:                getEnv("APP_NAME", "smart-urban-backend"),
		AppPort:                getEnv("APP_PORT", "8080"),
		AppUrl:                 getEnv("APP_URL", "http://localhost:3000"),
		DBUrl:                  mustEnv("DATABASE_URL"),
		TokenExpiry:            getDurationEnv("TOKEN_EXPIRY", DefaultTokenExpiry),
		VerificationCodeExpiry: getDurationEnv("VERIFICATION_CODE_EXPIRY", DefaultVerificationCodeExpiry),
		TwilioAccountSID:       mustEnv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        mustEnv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:        mustEnv("TWILIO_PHONE_NUMBER"),
		SendGridAPIKey:         mustEnv("SENDGRID_API_KEY"),
		SendGridFromEmail:      mustEnv("SENDGRID_FROM_EMAIL"),
		SendGridSandboxMode:    os.Getenv("SENDGRID_SANDBOX_MODE") == "true",
		UploadDir:              getEnv("UPLOAD_DIR", DefaultUploadDir),
	}

	privPEM, err := base64.StdEncoding.DecodeString(mustEnv("JWT_RSA_PRIVATE_KEY_B64"))
	if err != nil {
		utils.Logger.Fatal("JWT_RSA_PRIVATE_KEY_B64 is not valid base64: ", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		utils.Logger.Fatal("Failed to parse RSA private key: ", err)
	}
	cfg.RSAPrivateKey = priv
	cfg.RSAPublicKey = &priv.PublicKey

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("Required environment variable %s is not set", key)
	}
	return v
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.Logger.Warnf("Invalid duration in %s (%q), using default %v", key, v, fallback)
		return fallback
	}
	return d
}
