package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"smart-product-be/pkg/recommend/links"

	"github.com/joho/godotenv"
)

const (
	AppTitle       = "Smart Product Recommendation API"
	AppDescription = "Five-stage product recommendation pipeline"
	AppVersion     = "1.0.0"
)

var (
	ErrMissingAPIKey            = errors.New("GEMINI_API_KEY environment variable is required")
	ErrMissingHuggingFaceAPIKey = errors.New("HUGGINGFACE_API_KEY environment variable is required")
)

type Config struct {
	App      AppConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Host               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	MaxWorkers         int
	OtelEnabled        bool
	OtelEndpoint       string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider        string // "gemini", "ollama" or "huggingface"
	FastModel          string // structured and search calls
	LargeModel         string // guide and final report
	OllamaBaseURL      string
	OllamaModel        string
	HuggingFaceBaseURL string
	HuggingFaceModel   string
}

type PipelineConfig struct {
	EcommerceSites    []links.Site
	Pacing            time.Duration
	MaxLinkedProducts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	provider := getEnv("LLM_PROVIDER", "gemini")
	fastDefault, largeDefault := "gemini-2.0-flash", "gemini-2.5-flash"
	switch provider {
	case "ollama":
		fastDefault = getEnv("OLLAMA_MODEL", "llama3")
		largeDefault = fastDefault
	case "huggingface":
		fastDefault = getEnv("HUGGINGFACE_MODEL", "Qwen/Qwen2.5-7B-Instruct")
		largeDefault = fastDefault
	}

	return &Config{
		App: AppConfig{
			Host:               getEnv("APP_HOST", "0.0.0.0"),
			Port:               getEnv("APP_PORT", "8801"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			MaxWorkers:         getEnvAsInt("MAX_WORKERS", 1),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        provider,
			FastModel:          getEnv("LLM_FAST_MODEL", fastDefault),
			LargeModel:         getEnv("LLM_LARGE_MODEL", largeDefault),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
			HuggingFaceModel:   getEnv("HUGGINGFACE_MODEL", "Qwen/Qwen2.5-7B-Instruct"),
		},
		Pipeline: PipelineConfig{
			EcommerceSites:    parseSites(getEnv("ECOMMERCE_SITES", "")),
			Pacing:            time.Duration(getEnvAsInt("ECOMMERCE_PACING_MS", 100)) * time.Millisecond,
			MaxLinkedProducts: getEnvAsInt("ECOMMERCE_MAX_PRODUCTS", 4),
		},
	}
}

// Validate reports settings the recommendation agent cannot start without.
func (c *Config) Validate() error {
	switch c.Ai.LLMProvider {
	case "gemini", "":
		if c.Keys.GoogleGemini == "" {
			return ErrMissingAPIKey
		}
	case "huggingface":
		if c.Keys.HuggingFace == "" {
			return ErrMissingHuggingFaceAPIKey
		}
	}
	return nil
}

// ProviderEndpoint returns the base URL and credential of the selected backend.
func (c *Config) ProviderEndpoint() (baseURL, apiKey string) {
	switch c.Ai.LLMProvider {
	case "ollama":
		return c.Ai.OllamaBaseURL, ""
	case "huggingface":
		return c.Ai.HuggingFaceBaseURL, c.Keys.HuggingFace
	default:
		return "", c.Keys.GoogleGemini
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// parseSites reads "Name=https://base?q=;Other=https://..." and falls back to
// the default store list when nothing valid is given.
func parseSites(raw string) []links.Site {
	var sites []links.Site
	for _, entry := range strings.Split(raw, ";") {
		name, base, ok := strings.Cut(strings.TrimSpace(entry), "=")
		name, base = strings.TrimSpace(name), strings.TrimSpace(base)
		if !ok || name == "" || base == "" {
			continue
		}
		sites = append(sites, links.Site{Name: name, BaseURL: base})
	}
	if len(sites) == 0 {
		return append([]links.Site(nil), links.DefaultSites...)
	}
	return sites
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
