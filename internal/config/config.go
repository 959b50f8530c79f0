package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBDriver        string
	DBDSN           string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	PasswordHashing string
	LogLevel        string
	LogFormat       string
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if one exists. Variables already set in
// the environment win over the file. A missing .env file is not an error;
// one that exists but cannot be read or parsed is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return &Config{
		Addr:            getEnvAsString("MINITWIT_ADDR", ":8080"),
		DBDriver:        getEnvAsString("MINITWIT_DB_DRIVER", "sqlite3"),
		DBDSN:           getEnvAsString("MINITWIT_DB_DSN", "/tmp/minitwit.db"),
		ReadTimeout:     getEnvAsDuration("MINITWIT_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvAsDuration("MINITWIT_WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvAsDuration("MINITWIT_SHUTDOWN_TIMEOUT", 15*time.Second),
		PasswordHashing: getEnvAsString("PASSWORD_HASHING", "plain"),
		LogLevel:        getEnvAsString("LOG_LEVEL", "info"),
		LogFormat:       getEnvAsString("LOG_FORMAT", "text"),
	}, nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
