// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database path. ":memory:" for in-memory.
	DBPath string

	// FailOpenReads restores the historical behavior where failed
	// medical-leave and permission-overlap reads answer "nothing found"
	// instead of blocking the operation. Off by default.
	FailOpenReads bool

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %s", err)
	}

	return &Config{
		Port:          getEnvAsInt("PORT", 8080),
		DBPath:        getEnv("DB_PATH", "hr.db"),
		FailOpenReads: getEnvAsBool("FAIL_OPEN_READS", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}
