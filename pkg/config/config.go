package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath   string
	LogLevel string

	PasswordPepper string
	ReceiptSalt    string

	KafkaBrokers []string
	EventsTopic  string

	DefaultPageSize int
}

// Load reads the optional env file first; real environment variables win.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: env file not loaded: %v, using system environment", err)
	}

	return Config{
		DBPath:   EnvDefault("POS_DB_PATH", "tossplace.db"),
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		PasswordPepper: os.Getenv("PASSWORD_PEPPER"),
		ReceiptSalt:    EnvDefault("RECEIPT_SALT", "tossplace-receipt"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "pos_events"),

		DefaultPageSize: EnvIntDefault("DEFAULT_PAGE_SIZE", 10),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
