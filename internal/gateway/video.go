package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
)

// videoPollInterval paces polling of the long-running Veo operation.
const videoPollInterval = 5 * time.Second

// VideoResult is a finished animation. Data is set when the service returns
// bytes inline; URI points at hosted output otherwise.
type VideoResult struct {
	Data []byte `json:"-"`
	MIME string `json:"mime"`
	URI  string `json:"uri,omitempty"`
}

// GenerateVideo animates a generated design with a short camera move. aspect
// must be "16:9" or "9:16". Video generation is a long-running operation; the
// call polls until the service reports completion or ctx expires.
func (g *Gateway) GenerateVideo(ctx context.Context, start imaging.Image, userPrompt, aspect string) (VideoResult, error) {
	switch aspect {
	case "16:9", "9:16":
	default:
		return VideoResult{}, fmt.Errorf("gateway: unsupported aspect ratio %q", aspect)
	}

	client, err := g.ensureClient(ctx)
	if err != nil {
		return VideoResult{}, err
	}

	startBytes, err := start.Bytes()
	if err != nil {
		return VideoResult{}, fmt.Errorf("gateway: decode start frame: %w", err)
	}

	op, err := client.Models.GenerateVideos(ctx, g.videoModel,
		prompts.Animate(userPrompt),
		&genai.Image{ImageBytes: startBytes, MIMEType: start.MIME},
		&genai.GenerateVideosConfig{AspectRatio: aspect},
	)
	if err != nil {
		return VideoResult{}, fmt.Errorf("gateway: start video generation: %w", err)
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return VideoResult{}, fmt.Errorf("gateway: video generation: %w", ctx.Err())
		case <-time.After(videoPollInterval):
		}
		op, err = client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return VideoResult{}, fmt.Errorf("gateway: poll video operation: %w", err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return VideoResult{}, fmt.Errorf("%w: no video produced", ErrMalformedOutput)
	}

	video := op.Response.GeneratedVideos[0].Video
	result := VideoResult{
		Data: video.VideoBytes,
		MIME: video.MIMEType,
		URI:  video.URI,
	}
	if strings.TrimSpace(result.MIME) == "" {
		result.MIME = "video/mp4"
	}
	if len(result.Data) == 0 && result.URI == "" {
		return VideoResult{}, fmt.Errorf("%w: no video produced", ErrMalformedOutput)
	}
	g.log.Debug().Str("model", g.videoModel).Str("aspect", aspect).Msg("video generated")
	return result, nil
}
