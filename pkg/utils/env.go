package utils

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory, if any.
// Variables already present in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
}

func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetEnvDuration parses key with time.ParseDuration, returning fallback when
// the variable is unset or malformed.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	val := GetEnv(key, "")
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		log.Printf("invalid duration for %s=%q, using %s", key, val, fallback)
		return fallback
	}
	return d
}
