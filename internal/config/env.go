package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadEnv reads a local .env file when present. Missing files are fine;
// deployed environments inject variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file loaded")
	}
}

func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
