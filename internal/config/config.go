package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Client - settings of the authflow client (web and terminal front ends)
type Client struct {
	APIURL      string
	TokenFile   string
	HTTPTimeout time.Duration
	WebAddr     string
	LogLevel    string
	LogFile     string
}

// Stub - settings of the development auth backend
type Stub struct {
	Addr      string
	DBPath    string
	JWTSecret string
	OTPTTL    time.Duration
	LogLevel  string
}

// LoadEnv loads .env into the process environment when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Warning: .env file not found, using system environment variables")
	} else {
		logrus.Info("Environment variables loaded from .env file")
	}
}

// LoadClient reads client settings from the environment.
func LoadClient() (*Client, error) {
	timeout, err := durationEnv("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	tokenFile := os.Getenv("AUTH_TOKEN_FILE")
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		tokenFile = filepath.Join(home, ".authflow", "token")
	}

	return &Client{
		APIURL:      strings.TrimRight(stringEnv("AUTH_API_URL", "http://localhost:8080"), "/"),
		TokenFile:   tokenFile,
		HTTPTimeout: timeout,
		WebAddr:     stringEnv("WEB_ADDR", ":3000"),
		LogLevel:    stringEnv("LOG_LEVEL", "info"),
		LogFile:     stringEnv("LOG_FILE", "authflow.log"),
	}, nil
}

// LoadStub reads dev backend settings from the environment.
func LoadStub() (*Stub, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	ttl, err := durationEnv("OTP_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return &Stub{
		Addr:      stringEnv("STUB_ADDR", ":8080"),
		DBPath:    stringEnv("STUB_DB", "file:authstub.db"),
		JWTSecret: secret,
		OTPTTL:    ttl,
		LogLevel:  stringEnv("LOG_LEVEL", "info"),
	}, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}
