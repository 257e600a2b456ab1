package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// loadEnv loads the .env file once; after that everything comes from the
// process environment.
func loadEnv() {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}
	})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
