package gateway

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
)

// stripFences removes markdown code fences the model sometimes wraps around
// JSON despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// unmarshalLenient parses JSON directly and, failing that, retries on the
// outermost object or array span found in the text.
func unmarshalLenient(text string, open, close byte, v any) error {
	text = stripFences(text)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(text[start:end+1]), v)
	}
	return json.Unmarshal([]byte(text), v)
}

// responseParts returns the first candidate's parts, or nil.
func responseParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

// firstInlineImage scans candidate parts for inline image data.
func firstInlineImage(resp *genai.GenerateContentResponse) (imaging.Image, bool) {
	for _, part := range responseParts(resp) {
		if part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := strings.TrimSpace(part.InlineData.MIMEType)
		if mime == "" {
			mime = "image/png"
		}
		img, err := imaging.FromBytes(part.InlineData.Data, mime)
		if err != nil {
			continue
		}
		return img, true
	}
	return imaging.Image{}, false
}

// firstText scans candidate parts for non-empty text.
func firstText(resp *genai.GenerateContentResponse) string {
	for _, part := range responseParts(resp) {
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// imagePart wraps encoded image data as an inline request part.
func imagePart(img imaging.Image) (*genai.Part, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}
	return &genai.Part{InlineData: &genai.Blob{Data: data, MIMEType: img.MIME}}, nil
}

// userContent builds a single-user-turn content list from parts.
func userContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
