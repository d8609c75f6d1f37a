package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
)

// GenerateImage renders a restyled version of the source photo according to
// the already-built style prompt.
func (g *Gateway) GenerateImage(ctx context.Context, src imaging.Image, prompt string) (imaging.Image, error) {
	img, err := g.imageRequest(ctx, src, prompt)
	if err != nil {
		return imaging.Image{}, err
	}
	return img, nil
}

// EditImage applies a free-text instruction to the current generated image.
// When a Vertex Imagen editor is configured it handles the edit; otherwise the
// instruction goes through the same inline-image path as generation.
func (g *Gateway) EditImage(ctx context.Context, current imaging.Image, instruction string) (imaging.Image, error) {
	if g.imagen != nil {
		opCtx, cancel := g.opContext(ctx)
		defer cancel()
		img, err := g.imagen.Edit(opCtx, instruction, current)
		if err != nil {
			return imaging.Image{}, fmt.Errorf("gateway: imagen edit: %w", err)
		}
		return img, nil
	}
	return g.imageRequest(ctx, current, instruction)
}

func (g *Gateway) imageRequest(ctx context.Context, src imaging.Image, prompt string) (imaging.Image, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return imaging.Image{}, err
	}

	part, err := imagePart(src)
	if err != nil {
		return imaging.Image{}, fmt.Errorf("gateway: encode source image: %w", err)
	}

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	resp, err := client.Models.GenerateContent(opCtx, g.imageModel,
		userContent(part, genai.NewPartFromText(prompt)),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	)
	if err != nil {
		return imaging.Image{}, fmt.Errorf("gateway: generate image: %w", err)
	}

	img, ok := firstInlineImage(resp)
	if !ok {
		return imaging.Image{}, ErrNoImage
	}
	g.log.Debug().Str("model", g.imageModel).Str("mime", img.MIME).Msg("image generated")
	return img, nil
}
