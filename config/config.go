package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the reporting core
type Config struct {
	DatabasePath string
	BcryptCost   int
}

// Load reads settings from the environment, optionally seeded from a .env file.
// A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DatabasePath: "gruposiete.db",
		BcryptCost:   bcrypt.DefaultCost,
	}

	if path := os.Getenv("GRUPOSIETE_DB"); path != "" {
		cfg.DatabasePath = path
	}

	if costStr := os.Getenv("GRUPOSIETE_BCRYPT_COST"); costStr != "" {
		if cost, err := strconv.Atoi(costStr); err == nil && cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			cfg.BcryptCost = cost
		}
	}

	return cfg
}
