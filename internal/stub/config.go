package stub

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	JWTSecret    string
	TokenTTL     time.Duration
	EmployeeName string
	SeedCalendar bool
}

func Load() Config {
	return Config{
		Addr:         getEnv("STUB_ADDR", ":5000"),
		JWTSecret:    getEnv("STUB_JWT_SECRET", "dev-secret"),
		TokenTTL:     getEnvDuration("STUB_TOKEN_TTL", 30*time.Minute),
		EmployeeName: getEnv("STUB_EMPLOYEE_NAME", "สมชาย ใจดี"),
		SeedCalendar: getEnvBool("STUB_SEED_CALENDAR", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
