package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/config"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/events"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/gateway"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/llm"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/media"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/server"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/session"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.FromEnv()

	ctx := context.Background()

	var uploader media.Uploader
	if cfg.Media.Bucket != "" && cfg.Media.Region != "" {
		var err error
		uploader, err = media.NewUploader(ctx, media.Config{
			Bucket:         cfg.Media.Bucket,
			Region:         cfg.Media.Region,
			Endpoint:       cfg.Media.Endpoint,
			PublicURL:      cfg.Media.PublicURL,
			KeyPrefix:      cfg.Media.KeyPrefix,
			ForcePathStyle: cfg.Media.ForcePathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init media uploader")
		}
	} else {
		uploader = media.Disabled()
		log.Info().Msg("design export disabled (S3 config missing)")
	}

	var chat llm.Client
	if cfg.AI.ChatProvider == "openai" && cfg.AI.OpenAIAPIKey != "" {
		chat = llm.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel)
		log.Info().Msg("chat backend: OpenAI")
	} else {
		chat = llm.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.TextModel, cfg.AI.Timeout, nil)
		log.Info().Msg("chat backend: Gemini")
	}

	gwCfg := gateway.Config{
		APIKey:     cfg.AI.GeminiAPIKey,
		ImageModel: cfg.AI.ImageModel,
		TextModel:  cfg.AI.TextModel,
		VideoModel: cfg.AI.VideoModel,
		Chat:       chat,
		Timeout:    cfg.AI.Timeout,
		Logger:     log,
	}
	if imagen := gateway.NewVertexImagen(gateway.VertexImagenConfig{
		ProjectID:          cfg.AI.Imagen.ProjectID,
		Location:           cfg.AI.Imagen.Location,
		Model:              cfg.AI.Imagen.Model,
		APIKey:             cfg.AI.Imagen.APIKey,
		ServiceAccount:     cfg.AI.Imagen.ServiceAccount,
		ServiceAccountJSON: cfg.AI.Imagen.ServiceAccountJSON,
	}); imagen != nil {
		gwCfg.Imagen = imagen
		log.Info().Msg("image edits: Vertex AI Imagen inpainting")
	}
	gw := gateway.New(gwCfg)

	broker := events.NewBroker()
	controller := session.NewController(session.NewInMemoryStore(), gw, broker, log)
	if cfg.AI.GeminiAPIKey != "" {
		controller.ReplaceCredential(cfg.AI.GeminiAPIKey)
	}

	handler := session.NewHandler(controller, uploader, broker, log)
	srv := server.New(cfg.Port, handler, log)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
