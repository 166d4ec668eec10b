package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	AutoMigrate bool

	VariationUnitCost int
	InsightCreditCost int

	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiImageModel string
	GeminiRPS        float64
	GeminiBurst      int

	ObjectStoreEndpoint  string
	ObjectStoreRegion    string
	ObjectStoreAccessKey string
	ObjectStoreSecretKey string
	ObjectStoreBucket    string
	ObjectStoreUseSSL    bool
	ObjectStorePublicURL string

	InsightCacheSize int

	OutboxPollSeconds int
	OutboxBatchSize   int
}

// Load reads process configuration from the environment. A .env file in the
// working directory is applied first when present; real environment values win.
func Load() (Config, error) {
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "voltic"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		AutoMigrate: envBool("AUTO_MIGRATE", false),

		VariationUnitCost: envInt("VARIATION_UNIT_COST", 10),
		InsightCreditCost: envInt("INSIGHT_CREDIT_COST", 2),

		GeminiAPIKey:     firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY")),
		GeminiTextModel:  envString("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: envString("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiRPS:        envFloat("GEMINI_RPS", 2),
		GeminiBurst:      envInt("GEMINI_BURST", 1),

		ObjectStoreEndpoint:  os.Getenv("OBJECT_STORE_ENDPOINT"),
		ObjectStoreRegion:    envString("OBJECT_STORE_REGION", "us-east-1"),
		ObjectStoreAccessKey: os.Getenv("OBJECT_STORE_ACCESS_KEY"),
		ObjectStoreSecretKey: os.Getenv("OBJECT_STORE_SECRET_KEY"),
		ObjectStoreBucket:    envString("OBJECT_STORE_BUCKET", "brand-assets"),
		ObjectStoreUseSSL:    envBool("OBJECT_STORE_USE_SSL", true),
		ObjectStorePublicURL: os.Getenv("OBJECT_STORE_PUBLIC_URL"),

		InsightCacheSize: envInt("INSIGHT_CACHE_SIZE", 4096),

		OutboxPollSeconds: envInt("OUTBOX_POLL_SECONDS", 2),
		OutboxBatchSize:   envInt("OUTBOX_BATCH_SIZE", 100),
	}, nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
