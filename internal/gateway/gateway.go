package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/llm"
)

// Default models for each capability. The image model must support inline
// image responses; the text model handles structured extraction.
const (
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.5-pro"
	defaultVideoModel = "veo-3.0-generate-001"
)

// Config wires a Gateway.
type Config struct {
	APIKey     string
	ImageModel string
	TextModel  string
	VideoModel string

	// Chat carries conversational turns; it may point at Gemini or OpenAI.
	Chat llm.Client

	// Imagen, when set, takes over image edits via Vertex AI inpainting.
	Imagen ImagenEditor

	Timeout time.Duration
	Logger  zerolog.Logger
}

// Gateway translates domain intents into model-service calls and parses the
// responses into typed results. It owns the single process-wide genai client,
// created lazily and rebuilt when the credential is replaced.
type Gateway struct {
	mu     sync.Mutex
	apiKey string
	client *genai.Client

	imageModel string
	textModel  string
	videoModel string

	chat    llm.Client
	imagen  ImagenEditor
	timeout time.Duration
	log     zerolog.Logger
}

// New constructs a Gateway. No network connection is made until the first
// operation runs.
func New(cfg Config) *Gateway {
	g := &Gateway{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		imageModel: cfg.ImageModel,
		textModel:  cfg.TextModel,
		videoModel: cfg.VideoModel,
		chat:       cfg.Chat,
		imagen:     cfg.Imagen,
		timeout:    cfg.Timeout,
		log:        cfg.Logger,
	}
	if g.imageModel == "" {
		g.imageModel = defaultImageModel
	}
	if g.textModel == "" {
		g.textModel = defaultTextModel
	}
	if g.videoModel == "" {
		g.videoModel = defaultVideoModel
	}
	if g.timeout <= 0 {
		g.timeout = 120 * time.Second
	}
	return g
}

// ReplaceCredential swaps the API key and discards the current client so the
// next operation reconnects with the new credential.
func (g *Gateway) ReplaceCredential(apiKey string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apiKey = strings.TrimSpace(apiKey)
	g.client = nil
	if setter, ok := g.chat.(interface{ SetAPIKey(string) }); ok {
		setter.SetAPIKey(g.apiKey)
	}
	g.log.Info().Msg("gateway credential replaced")
}

// ensureClient returns the shared genai client, creating it on first use.
func (g *Gateway) ensureClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("gateway: no API credential configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("gateway: create genai client: %w", err)
	}
	g.client = client
	return client, nil
}

// opContext bounds a single model call.
func (g *Gateway) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}
