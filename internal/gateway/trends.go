package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
)

// TrendReport pairs the markdown-like narrative with its mood-board image.
type TrendReport struct {
	Text  string        `json:"text"`
	Image imaging.Image `json:"image"`
}

// GenerateTrendReport produces the narrative and mood board for one country
// in a single mixed-modality call. Both parts are required.
func (g *Gateway) GenerateTrendReport(ctx context.Context, country string) (TrendReport, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return TrendReport{}, err
	}

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	resp, err := client.Models.GenerateContent(opCtx, g.imageModel,
		userContent(
			genai.NewPartFromText(prompts.TrendMoodBoard(country)),
			genai.NewPartFromText(prompts.TrendNarrative(country)),
		),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return TrendReport{}, fmt.Errorf("gateway: generate trend report: %w", err)
	}

	report := TrendReport{Text: firstText(resp)}
	if img, ok := firstInlineImage(resp); ok {
		report.Image = img
	}
	if report.Text == "" || report.Image.IsZero() {
		return TrendReport{}, fmt.Errorf("%w: failed to generate trend report", ErrMalformedOutput)
	}
	return report, nil
}
