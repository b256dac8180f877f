// Package config loads runtime configuration from the environment, with a
// .env file honored in development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Port string

	GeminiAPIKey string
	GeminiModel  string

	// CategorizeWorkers caps concurrent AI categorization calls.
	CategorizeWorkers int

	// MaxFileBytes is the per-upload size limit.
	MaxFileBytes int64

	// LedgerCSVMinBytes is the size above which a CSV upload is treated as
	// an exported ledger rather than a statement.
	LedgerCSVMinBytes int64

	// TaxonomyPath optionally overrides the built-in category taxonomy.
	TaxonomyPath string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", ""),
		CategorizeWorkers: getEnvInt("CATEGORIZE_WORKERS", 4),
		MaxFileBytes:      int64(getEnvInt("MAX_FILE_BYTES", 10<<20)),
		LedgerCSVMinBytes: int64(getEnvInt("LEDGER_CSV_MIN_BYTES", 50000)),
		TaxonomyPath:      os.Getenv("TAXONOMY_PATH"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
