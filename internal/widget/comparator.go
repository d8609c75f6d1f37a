package widget

// Comparator models the before/after image slider. The divider position is a
// percentage of container width; the before layer is clipped to [0, Position].
type Comparator struct {
	Position float64 `json:"position"`
}

// NewComparator starts with the divider centered, as every fresh result does.
func NewComparator() Comparator {
	return Comparator{Position: 50}
}

// Drag moves the divider to the pointer position expressed as a fraction of
// the container width, clamped to the container bounds.
func (c *Comparator) Drag(pointerX, containerWidth float64) {
	if containerWidth <= 0 {
		return
	}
	c.Set(pointerX / containerWidth * 100)
}

// Set places the divider at the given percentage, clamped to [0, 100].
func (c *Comparator) Set(pos float64) {
	c.Position = ClampPercent(pos)
}

// Reset recenters the divider for a new generated image.
func (c *Comparator) Reset() {
	c.Position = 50
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
