package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Chat-completion endpoint.
	ModelBaseURL    string
	ModelName       string
	ModelToken      string
	ModelRetryDelay time.Duration

	// Hosted data API.
	GibsonBaseURL string
	GibsonAPIKey  string

	// Cookie-session auth service.
	AuthBaseURL string

	// Remote extraction service; empty means extract locally.
	ExtractorBaseURL string

	// Self-hosted persistence. When set, reports are stored in Postgres
	// instead of the hosted data API.
	DatabaseURL string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort dotenv load for local development.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))
	gibsonKey := os.Getenv("GIBSON_API_KEY")
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && gibsonKey == "" && dbURL == "" {
		log.Printf("config: neither GIBSON_API_KEY nor DATABASE_URL set; reports will not persist")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ModelBaseURL:    getEnv("MODEL_API_URL", "https://router.huggingface.co/v1/chat/completions"),
		ModelName:       getEnv("MODEL_NAME", "baidu/ERNIE-4.5-VL-424B-A47B-Base-PT:novita"),
		ModelToken:      os.Getenv("HF_ACCESS_TOKEN"),
		ModelRetryDelay: getEnvDuration("MODEL_RETRY_DELAY", 30*time.Second),

		GibsonBaseURL: getEnv("GIBSON_API_URL", "https://api.gibsonai.com/v1/-"),
		GibsonAPIKey:  gibsonKey,

		AuthBaseURL: getEnv("AUTH_API_URL", "https://ares-checker.onrender.com"),

		ExtractorBaseURL: os.Getenv("EXTRACTOR_API_URL"),

		DatabaseURL: dbURL,

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed >= 0 {
		return parsed
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
