package prompts

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

// Style pairs a display name with the prompt fragment sent to the model.
type Style struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// CustomStyleName marks styles built from free-text user input.
const CustomStyleName = "Custom"

// Styles is the fixed design-style catalog offered by the UI.
var Styles = []Style{
	{Name: "Modern", Prompt: "A modern and minimalist interior design, clean lines, simple color palette, and materials like metal, glass, and steel."},
	{Name: "Minimalist", Prompt: "A minimalist interior design, simplicity, clean lines, and a monochromatic palette with color used as an accent."},
	{Name: "Industrial", Prompt: "An industrial interior design, raw and unfinished look, exposed brick, ductwork, and wood."},
	{Name: "Scandinavian", Prompt: "A Scandinavian interior design, simplicity, minimalism, and functionality, with a gentle and airy feel."},
	{Name: "Bohemian", Prompt: "A Bohemian interior design, carefree and adventurous, with a mix of patterns, textures, and colors."},
	{Name: "Mid-Century Modern", Prompt: "A Mid-Century Modern interior design, retro-nostalgic feel, with organic shapes, and a focus on functionality."},
	{Name: "Coastal", Prompt: "A Coastal interior design, light, airy, and beachy feel, with a color palette of white, blue, and sand."},
}

// Countries lists the markets available for trend reports.
var Countries = []string{
	"United States", "Japan", "Brazil", "Italy", "Sweden",
	"India", "Morocco", "Australia", "Mexico", "South Korea",
}

// DefaultAgentInstruction is the system instruction for the design assistant chat.
const DefaultAgentInstruction = "You are an expert interior designer. Your goal is to help users visualize and refine their dream space. Be helpful, creative, and provide insightful suggestions. If the user asks for an edit, provide a concise confirmation that you are processing it. If they ask a question, provide a detailed and helpful answer."

// LoadingTextsImage rotates while image generation is in flight.
var LoadingTextsImage = []string{
	"Reimagining your space...",
	"Consulting with our AI designer...",
	"Painting with pixels...",
	"Finding the perfect virtual furniture...",
	"Generating your new look...",
}

// LoadingTextsPrice rotates while price analysis is in flight.
var LoadingTextsPrice = []string{
	"Scanning the room for items...",
	"Checking virtual price tags...",
	"Estimating costs for your area...",
	"Compiling your budget report...",
}

// FindStyle locates a catalog style by name.
func FindStyle(name string) (Style, bool) {
	for _, s := range Styles {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Style{}, false
}

// CustomStyle wraps ad-hoc user input in the sentinel custom style.
func CustomStyle(prompt string) Style {
	return Style{Name: CustomStyleName, Prompt: strings.TrimSpace(prompt)}
}

// Restyle builds the image-generation prompt for a style applied to an
// uploaded photo. room is set when restyling a single room off a floor plan,
// palette is a list of hex colors the result must honor.
func Restyle(style Style, room string, palette []string) string {
	var b strings.Builder
	if room != "" {
		fmt.Fprintf(&b, "Generate an image of a %s in a %s style. %s", room, style.Name, style.Prompt)
	} else {
		fmt.Fprintf(&b, "Redesign this room in a %s style. %s", style.Name, style.Prompt)
	}
	if len(palette) > 0 {
		fmt.Fprintf(&b, " Use a color scheme built strictly around these colors: %s.", strings.Join(palette, ", "))
	}
	return b.String()
}

// FloorPlanExtraction instructs the model to list room names from a 2D plan.
var FloorPlanExtraction = strings.TrimSpace(dedent.Dedent(`
	Analyze this floor plan image. Identify the names of all distinct rooms and labeled
	areas (e.g., 'Living Room', 'Kitchen', 'Bedroom 1', 'Patio', 'W.I.C.'). Use
	architectural common sense: expand common abbreviations (e.g., 'M. Bed' to 'Master
	Bedroom', 'W.I.C' to 'Walk-in Closet'), identify unlabeled but obvious areas like
	hallways or foyers if they are distinct, and group open-plan spaces logically. Also,
	identify attached outdoor spaces like balconies or patios. Ignore any dimension
	lines, furniture labels, or technical annotations. Return the names as a single,
	clean JSON array of strings. For example: ["Living Room", "Kitchen", "Master
	Bedroom", "Walk-in Closet", "Balcony"]. Do not include any other text, formatting,
	or markdown.
`))

// PaletteExtraction asks for a named five-color palette from an image.
var PaletteExtraction = strings.TrimSpace(dedent.Dedent(`
	Analyze the colors in this image and generate a cohesive color palette. The palette
	should have a creative name and include 5 hex color codes. Provide the response in
	the specified JSON format.
`))

// ComplementaryPalette asks for a palette seeded by a base color. The model is
// required to echo the seed as the first entry.
func ComplementaryPalette(seedColor string) string {
	return fmt.Sprintf("Generate a new, harmonious 5-color interior design palette that complements the base color %s. The first color in the array must be the provided base color. Give the palette a creative name.", seedColor)
}

// PriceAnalysis asks for itemized furnishing estimates localized to a place.
func PriceAnalysis(location string) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(`
		Analyze this image of a redesigned room. Identify 5-7 key furniture and decor
		items. For each item, provide a brief description and an estimated price range in
		USD, appropriate for the following location: %s. Base your estimates on typical
		consumer-grade products, not high-end luxury goods. Return the result as a JSON
		object adhering to the specified schema.
	`)), location)
}

// TrendNarrative asks for the markdown-like trend report body for a country.
func TrendNarrative(country string) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(`
		Generate a concise trend report for interior design in %s. The report should include:
		- A main heading '## Key Characteristics'. Under this, list 3-4 bullet points of the defining features.
		- A main heading '## Color Palette'. Under this, list 3-4 bullet points describing the popular colors.
		- A main heading '## Materials and Textures'. Under this, list 3-4 bullet points of common materials.
		Format the output as simple markdown with '##' for headings and '*' for bullet points.
	`)), country)
}

// TrendMoodBoard asks for the mood-board image accompanying a trend report.
func TrendMoodBoard(country string) string {
	return fmt.Sprintf("Generate a visually appealing mood board image that represents the current interior design trends in %s.", country)
}

// Animate builds the Veo prompt for animating a generated design.
func Animate(userPrompt string) string {
	return fmt.Sprintf("Animate this interior scene as a short cinematic camera move. %s", strings.TrimSpace(userPrompt))
}
