package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	ListenAddr string
	JWTSecret  string
}

// Load reads .env (if present) and assembles the configuration from the
// environment, falling back to local development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return Config{
		DBHost:        getenv("DB_HOST", "localhost"),
		DBUser:        getenv("DB_USER", "user"),
		DBPassword:    getenv("DB_PASSWORD", "password"),
		DBName:        getenv("DB_NAME", "bondchatdb"),
		DBPort:        getenv("DB_PORT", "5432"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
	}
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
