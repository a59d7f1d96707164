package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	GCPProjectID   string
	GCPLocation    string
	ModelName      string
	EmbeddingModel string

	OpenAIAPIKey string // Whisper transcription

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = canned replies, no network

	AudioDir string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads .env (if present) plus env vars and builds the config.
func Load() *Config {
	// Missing .env is fine, real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: getEnv("REFLECT_TELEGRAM_TOKEN", ""),

		GCPProjectID:   getEnv("REFLECT_GCP_PROJECT", ""),
		GCPLocation:    getEnv("REFLECT_GCP_LOCATION", "us-central1"),
		ModelName:      getEnv("REFLECT_MODEL_NAME", "gemini-2.5-flash"),
		EmbeddingModel: getEnv("REFLECT_EMBEDDING_MODEL", "gemini-embedding-001"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		StorageBackend: getEnv("REFLECT_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("REFLECT_USE_MOCK_LLM", false),

		AudioDir: getEnv("REFLECT_AUDIO_DIR", "audio_files"),
	}

	if cfg.TelegramToken == "" {
		log.Fatal("REFLECT_TELEGRAM_TOKEN must be set")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("REFLECT_GCP_PROJECT must be set for the firestore backend")
	}
	if !cfg.UseMockLLM && cfg.GCPProjectID == "" {
		log.Fatal("REFLECT_GCP_PROJECT must be set unless REFLECT_USE_MOCK_LLM=1")
	}

	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		log.Fatalf("creating audio dir %s: %v", cfg.AudioDir, err)
	}

	return cfg
}
