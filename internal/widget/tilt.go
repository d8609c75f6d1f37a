package widget

// maxTiltDegrees bounds the parallax rotation of the immersive preview.
const maxTiltDegrees = 8

// Tilt is the 3D-preview transform derived from the pointer position.
type Tilt struct {
	RotateX   float64 `json:"rotateX"`
	RotateY   float64 `json:"rotateY"`
	GradientX float64 `json:"gradientX"`
	GradientY float64 `json:"gradientY"`
}

// NeutralTilt is the resting transform used when the pointer leaves.
func NeutralTilt() Tilt {
	return Tilt{GradientX: 50, GradientY: 50}
}

// TiltAt computes the card rotation and glow center for a pointer at (x, y)
// inside a width x height container. Rotation scales linearly from the center
// to ±maxTiltDegrees at the edges; the glow follows the pointer in percent.
func TiltAt(x, y, width, height float64) Tilt {
	if width <= 0 || height <= 0 {
		return NeutralTilt()
	}

	mouseX := x - width/2
	mouseY := y - height/2

	return Tilt{
		RotateY:   mouseX / (width / 2) * maxTiltDegrees,
		RotateX:   -mouseY / (height / 2) * maxTiltDegrees,
		GradientX: ClampPercent(x / width * 100),
		GradientY: ClampPercent(y / height * 100),
	}
}
