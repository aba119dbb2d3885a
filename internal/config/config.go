package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config regroupe la configuration du processus, chargée depuis l'environnement
type Config struct {
	Port string
	Env  string // development, production

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Limiteur de requêtes
	RateLimitWindow time.Duration
	RateLimitMax    int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port: envOr("PORT", "8080"),
		Env:  envOr("APP_ENV", "development"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOr("DB_NAME", "skillforge"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitMax:    envInt("RATE_LIMIT_MAX_REQUESTS", 100),
	}

	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}

	return cfg, nil
}

// IsDevelopment: en développement les erreurs internes sont détaillées,
// en production on ne renvoie qu'un message générique
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
