package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Keys       APIKeys
	Ai         AIConfig
	Rag        RagConfig
	Chunking   ChunkingConfig
	Stream     StreamConfig
	Resilience ResilienceConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	JwtSecret          string
	ApiKey             string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "gemini"
	LLMModel          string
	LLMTemperature    float64
	LLMMaxTokens      int
}

// RagConfig carries the retrieval constants. The defaults mirror the values
// the pipeline was tuned with; any fixed documented values satisfy the
// retrieval invariants.
type RagConfig struct {
	SimilarityThreshold float64
	TopK                int
	MaxContextChunks    int
	MaxCitedUrls        int
}

type ChunkingConfig struct {
	MinTokens     int
	MaxTokens     int
	OverlapTokens int
}

type StreamConfig struct {
	ChunkSize int // codepoints per content frame, clamped by pkg/sse
}

type ResilienceConfig struct {
	MaxAttempts      int
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			ApiKey:             getEnv("API_KEY", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			LLMTemperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			LLMMaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Rag: RagConfig{
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.35),
			TopK:                getEnvAsInt("RAG_TOP_K", 8),
			MaxContextChunks:    getEnvAsInt("RAG_MAX_CONTEXT_CHUNKS", 5),
			MaxCitedUrls:        getEnvAsInt("RAG_MAX_CITED_URLS", 3),
		},
		Chunking: ChunkingConfig{
			MinTokens:     getEnvAsInt("CHUNK_MIN_TOKENS", 400),
			MaxTokens:     getEnvAsInt("CHUNK_MAX_TOKENS", 600),
			OverlapTokens: getEnvAsInt("CHUNK_OVERLAP_TOKENS", 75),
		},
		Stream: StreamConfig{
			ChunkSize: getEnvAsInt("STREAM_CHUNK_SIZE", 64),
		},
		Resilience: ResilienceConfig{
			MaxAttempts:      getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			InitialDelay:     getEnvAsDuration("RETRY_INITIAL_DELAY", 100*time.Millisecond),
			MaxDelay:         getEnvAsDuration("RETRY_MAX_DELAY", 10*time.Second),
			FailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
			Cooldown:         getEnvAsDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
	}
}

// Validate applies the startup bound checks once, so components can trust
// their configuration afterwards.
func (c *Config) Validate() error {
	if c.Chunking.MinTokens <= 0 {
		return fmt.Errorf("CHUNK_MIN_TOKENS must be positive, got %d", c.Chunking.MinTokens)
	}
	if c.Chunking.MaxTokens <= c.Chunking.MinTokens {
		return fmt.Errorf("CHUNK_MAX_TOKENS (%d) must exceed CHUNK_MIN_TOKENS (%d)",
			c.Chunking.MaxTokens, c.Chunking.MinTokens)
	}
	if c.Chunking.OverlapTokens < 0 {
		return fmt.Errorf("CHUNK_OVERLAP_TOKENS must not be negative, got %d", c.Chunking.OverlapTokens)
	}
	if c.Rag.TopK <= 0 {
		return fmt.Errorf("RAG_TOP_K must be positive, got %d", c.Rag.TopK)
	}
	if c.Rag.SimilarityThreshold < 0 || c.Rag.SimilarityThreshold > 1 {
		return fmt.Errorf("RAG_SIMILARITY_THRESHOLD must be in [0,1], got %f", c.Rag.SimilarityThreshold)
	}
	if c.Ai.LLMTemperature < 0 || c.Ai.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be in [0,2], got %f", c.Ai.LLMTemperature)
	}
	if c.Resilience.MaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive, got %d", c.Resilience.MaxAttempts)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
