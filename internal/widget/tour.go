package widget

// Side is a tooltip placement relative to its target.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// TourStep highlights one UI region with explanatory text.
type TourStep struct {
	Target string `json:"target"`
	Text   string `json:"text"`
	Side   Side   `json:"side"`
}

// Rect is a target's screen rectangle in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the rectangle.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Tooltip geometry used when checking for viewport overflow.
const (
	tooltipHeight = 160
	tooltipMargin = 10
)

// DefaultTourSteps is the fixed onboarding sequence shown after the first
// upload in single-room mode.
var DefaultTourSteps = []TourStep{
	{
		Target: "styleCarousel",
		Text:   "Great! Now, choose a design style from this carousel to instantly reimagine your space.",
		Side:   SideBottom,
	},
	{
		Target: "imageComparator",
		Text:   "Your original photo and the new AI-generated design will appear here. Once a design is ready, a chat window will appear below for you to refine it further!",
		Side:   SideTop,
	},
}

// Tour runs an ordered sequence of onboarding steps. The completion callback
// fires exactly once, whether the tour finishes or is dismissed.
type Tour struct {
	Steps      []TourStep `json:"steps"`
	Index      int        `json:"index"`
	Active     bool       `json:"active"`
	onComplete func()
	completed  bool
}

// NewTour builds an inactive tour over the given steps.
func NewTour(steps []TourStep, onComplete func()) *Tour {
	return &Tour{Steps: steps, onComplete: onComplete}
}

// Start activates the tour at step 0. Starting an empty tour completes it
// immediately.
func (t *Tour) Start() {
	if len(t.Steps) == 0 {
		t.finish()
		return
	}
	t.Active = true
	t.Index = 0
}

// Current returns the active step.
func (t *Tour) Current() (TourStep, bool) {
	if !t.Active || t.Index < 0 || t.Index >= len(t.Steps) {
		return TourStep{}, false
	}
	return t.Steps[t.Index], true
}

// Next advances the tour; advancing past the last step finishes it.
func (t *Tour) Next() {
	if !t.Active {
		return
	}
	if t.Index < len(t.Steps)-1 {
		t.Index++
		return
	}
	t.finish()
}

// Back retreats one step. It is a no-op at step 0.
func (t *Tour) Back() {
	if !t.Active || t.Index == 0 {
		return
	}
	t.Index--
}

// CanGoBack reports whether the Back control should be enabled.
func (t *Tour) CanGoBack() bool {
	return t.Active && t.Index > 0
}

// Dismiss ends the tour early.
func (t *Tour) Dismiss() {
	if !t.Active {
		return
	}
	t.finish()
}

func (t *Tour) finish() {
	t.Active = false
	if t.completed {
		return
	}
	t.completed = true
	if t.onComplete != nil {
		t.onComplete()
	}
}

// Placement resolves the tooltip side for a target rectangle. When the
// preferred vertical side would push the tooltip outside the viewport, it
// flips top and bottom. Horizontal sides are returned unchanged.
func Placement(preferred Side, target Rect, viewportHeight float64) Side {
	switch preferred {
	case SideBottom:
		if target.Bottom()+tooltipHeight+tooltipMargin > viewportHeight {
			return SideTop
		}
	case SideTop:
		if target.Top-tooltipHeight-tooltipMargin < 0 {
			return SideBottom
		}
	}
	return preferred
}
