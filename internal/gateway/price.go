package gateway

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
)

// PriceItem is one furnishing estimate from a price analysis.
type PriceItem struct {
	Item        string `json:"item"`
	Description string `json:"description"`
	PriceRange  string `json:"priceRange"`
}

var priceSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"item": {
				Type:        genai.TypeString,
				Description: "The name of the furniture or decor item.",
			},
			"description": {
				Type:        genai.TypeString,
				Description: "A brief, one-sentence description of the item.",
			},
			"priceRange": {
				Type:        genai.TypeString,
				Description: `The estimated price range for this item in USD (e.g., "$500 - $1500").`,
			},
		},
		Required: []string{"item", "description", "priceRange"},
	},
}

// AnalyzePrices itemizes the furniture in a generated design with estimated
// price ranges localized to the given place.
func (g *Gateway) AnalyzePrices(ctx context.Context, img imaging.Image, location string) ([]PriceItem, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	part, err := imagePart(img)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode price source: %w", err)
	}

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	resp, err := client.Models.GenerateContent(opCtx, g.textModel,
		userContent(part, genai.NewPartFromText(prompts.PriceAnalysis(location))),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   priceSchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gateway: analyze prices: %w", err)
	}

	items, err := parsePriceItems(firstText(resp))
	if err != nil {
		return nil, err
	}
	g.log.Debug().Int("items", len(items)).Str("location", location).Msg("price report generated")
	return items, nil
}

// parsePriceItems validates the structured report shape.
func parsePriceItems(text string) ([]PriceItem, error) {
	var items []PriceItem
	if err := unmarshalLenient(text, '[', ']', &items); err != nil {
		return nil, fmt.Errorf("%w: could not generate a price report", ErrMalformedOutput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: could not generate a price report", ErrMalformedOutput)
	}
	for _, item := range items {
		if strings.TrimSpace(item.Item) == "" || strings.TrimSpace(item.PriceRange) == "" {
			return nil, fmt.Errorf("%w: could not generate a price report", ErrMalformedOutput)
		}
	}
	return items, nil
}
