package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Addr             string
	LogLevel         zerolog.Level
	WSOriginPatterns []string
}

func loadConfig() Config {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	return Config{
		Addr:             getEnv("ADDR", ":8080"),
		LogLevel:         level,
		WSOriginPatterns: getEnvAsList("WS_ORIGIN_PATTERNS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
