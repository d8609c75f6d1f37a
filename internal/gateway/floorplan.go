package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
	"github.com/shlok3664/Ai-Interior-Consultant/internal/prompts"
)

// AnalyzeFloorPlan extracts room names from a 2D floor-plan image. Room
// identification is best-effort: an unparseable answer yields zero rooms, not
// an error, because the UI has a dedicated empty state for that.
func (g *Gateway) AnalyzeFloorPlan(ctx context.Context, plan imaging.Image) ([]string, error) {
	client, err := g.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	part, err := imagePart(plan)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode floor plan: %w", err)
	}

	opCtx, cancel := g.opContext(ctx)
	defer cancel()

	resp, err := client.Models.GenerateContent(opCtx, g.textModel,
		userContent(part, genai.NewPartFromText(prompts.FloorPlanExtraction)), nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: analyze floor plan: %w", err)
	}

	rooms := parseRooms(firstText(resp))
	if len(rooms) == 0 {
		g.log.Warn().Msg("floor plan analysis found no rooms")
	}
	return rooms, nil
}

// parseRooms decodes a JSON array of room names, tolerating fences and
// surrounding prose. Anything that is not an array of strings counts as no
// rooms found.
func parseRooms(text string) []string {
	if text == "" {
		return []string{}
	}
	var rooms []string
	if err := unmarshalLenient(text, '[', ']', &rooms); err != nil {
		return []string{}
	}
	clean := make([]string, 0, len(rooms))
	for _, room := range rooms {
		if room != "" {
			clean = append(clean, room)
		}
	}
	return clean
}
