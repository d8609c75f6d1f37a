package gateway

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
)

// PaletteSize is the fixed number of swatches in every palette.
const PaletteSize = 5

// Palette is a named, ordered set of hex colors.
type Palette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

var paletteSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name": {
			Type:        genai.TypeString,
			Description: "A creative name for the color palette inspired by the image.",
		},
		"colors": {
			Type:        genai.TypeArray,
			Description: "An array of 5 hex color codes that are dominant and harmonious in the image.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"name", "colors"},
}

// GeneratePalette extracts a cohesive color palette from an image.
func (g *Gateway) GeneratePalette(ctx context.Context, img imaging.Image) (Palette, error) {
	part, err := imagePart(img)
	if err != nil {
		return Palette{}, fmt.Errorf("gateway: encode palette source: %w", err)
	}
	return g.paletteRequest(ctx, userContent(part, genai.NewPartFromText(prompts.PaletteExtraction)), "")
}

// GenerateComplementaryPalette builds a palette around a seed color. The
// returned palette always leads with the seed.
func (g *Gateway) GenerateComplementaryPalette(ctx context.Context, seedColor string) (Palette, error) {
	seedColor = strings.TrimSpace(seedColor)
	if seedColor == "" {
		return Palette{}, fmt.Errorf("gateway: seed color is required")
	}
	return g.paletteRequest(ctx,
		userContent(genai.NewPartFromText(prompts.ComplementaryPalette(seedColor))), seedColor)
}

func (g *Gateway) paletteRequest(ctx context.Context, contents []*genai.Content, seed string) (Palette, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return Palette{}, err
	}

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	resp, err := client.Models.GenerateContent(opCtx, g.textModel, contents,
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   paletteSchema,
		},
	)
	if err != nil {
		return Palette{}, fmt.Errorf("gateway: generate palette: %w", err)
	}

	palette, err := parsePalette(firstText(resp), seed)
	if err != nil {
		return Palette{}, err
	}
	return palette, nil
}

// parsePalette validates the structured palette shape. A non-empty seed pins
// the first swatch, which is part of the complementary-palette contract.
func parsePalette(text, seed string) (Palette, error) {
	var palette Palette
	if err := unmarshalLenient(text, '{', '}', &palette); err != nil {
		return Palette{}, fmt.Errorf("%w: could not generate a color palette", ErrMalformedOutput)
	}
	if palette.Name == "" || len(palette.Colors) == 0 {
		return Palette{}, fmt.Errorf("%w: could not generate a color palette", ErrMalformedOutput)
	}
	for i, color := range palette.Colors {
		palette.Colors[i] = strings.TrimSpace(color)
		if palette.Colors[i] == "" {
			return Palette{}, fmt.Errorf("%w: could not generate a color palette", ErrMalformedOutput)
		}
	}
	if len(palette.Colors) > PaletteSize {
		palette.Colors = palette.Colors[:PaletteSize]
	}
	if seed != "" && !strings.EqualFold(palette.Colors[0], seed) {
		palette.Colors[0] = seed
	}
	return palette, nil
}
