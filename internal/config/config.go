package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port          string
	MongoDBURI    string
	MongoDBName   string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigin    string
	Environment   string
	LogLevel      string
	AdminEmail    string
	AdminPassword string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnvWithDefault("PORT", "8080"),
		MongoDBURI:    os.Getenv("MONGODB_URI"),
		MongoDBName:   getEnvWithDefault("MONGODB_DB", "tastebay"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigin:    getEnvWithDefault("CORS_ORIGIN", "http://localhost:3000"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	ttl, err := time.ParseDuration(getEnvWithDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %v", err)
	}
	cfg.TokenTTL = ttl

	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
