// Package config loads the runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the functions need at startup.
// It is read once per cold start and treated as immutable.
type Config struct {
	Region     string
	UserPoolID string
	ClientID   string

	GameTable        string
	UserTable        string
	TranslationTable string

	LogLevel          string
	JWKSFetchAttempts int
	CookieMaxAge      time.Duration

	// FunctionName is set by the Lambda runtime; empty when running locally.
	FunctionName string
}

// Load reads Config from the environment. A .env file in the working
// directory is honoured for local runs but never overrides real variables.
// All missing required variables are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var missing []string

	required := []struct {
		key string
		dst *string
	}{
		{"REGION", &cfg.Region},
		{"USER_POOL_ID", &cfg.UserPoolID},
		{"CLIENT_ID", &cfg.ClientID},
		{"GAME_TABLE_NAME", &cfg.GameTable},
		{"USER_TABLE_NAME", &cfg.UserTable},
		{"TRANSLATE_TABLE_NAME", &cfg.TranslationTable},
	}
	for _, r := range required {
		*r.dst = os.Getenv(r.key)
		if *r.dst == "" {
			missing = append(missing, r.key)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.JWKSFetchAttempts = getEnvInt("JWKS_FETCH_ATTEMPTS", 2)
	cfg.CookieMaxAge = getEnvDuration("COOKIE_MAX_AGE", time.Hour)
	cfg.FunctionName = os.Getenv("AWS_LAMBDA_FUNCTION_NAME")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
