package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration values.
type Config struct {
	Port string

	AI    AIConfig
	Media MediaConfig
}

// AIConfig describes the model backends.
type AIConfig struct {
	GeminiAPIKey string
	ImageModel   string
	TextModel    string
	VideoModel   string

	// Timeout bounds every single model call.
	Timeout time.Duration

	// ChatProvider selects "gemini" (default) or "openai" for the design
	// assistant conversation.
	ChatProvider string
	OpenAIAPIKey string
	OpenAIModel  string

	Imagen ImagenConfig
}

// ImagenConfig enables image edits via Vertex AI inpainting when complete.
type ImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
}

// MediaConfig describes S3/media related configuration for design exports.
type MediaConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	PublicURL      string
	KeyPrefix      string
	ForcePathStyle bool
}

// FromEnv loads configuration from environment variables and applies defaults.
func FromEnv() Config {
	return Config{
		Port: getenv("APP_PORT", "8080"),
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			ImageModel:   os.Getenv("GEMINI_IMAGE_MODEL"),
			TextModel:    os.Getenv("GEMINI_TEXT_MODEL"),
			VideoModel:   os.Getenv("GEMINI_VIDEO_MODEL"),
			Timeout:      getenvDuration("AI_TIMEOUT", 2*time.Minute),
			ChatProvider: strings.ToLower(getenv("CHAT_PROVIDER", "gemini")),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  os.Getenv("OPENAI_MODEL"),
			Imagen: ImagenConfig{
				ProjectID:          os.Getenv("VERTEX_PROJECT_ID"),
				Location:           os.Getenv("VERTEX_LOCATION"),
				Model:              os.Getenv("VERTEX_IMAGEN_MODEL"),
				APIKey:             os.Getenv("VERTEX_API_KEY"),
				ServiceAccount:     os.Getenv("VERTEX_SERVICE_ACCOUNT_FILE"),
				ServiceAccountJSON: os.Getenv("VERTEX_SERVICE_ACCOUNT_JSON"),
			},
		},
		Media: MediaConfig{
			Bucket:         os.Getenv("S3_BUCKET"),
			Region:         os.Getenv("S3_REGION"),
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicURL:      os.Getenv("S3_PUBLIC_URL"),
			KeyPrefix:      strings.Trim(os.Getenv("S3_KEY_PREFIX"), "/"),
			ForcePathStyle: getenvBool("S3_FORCE_PATH_STYLE", false),
		},
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}

	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}

	return parsed
}
