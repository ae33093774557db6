package render

import (
	"image/color"
	"math"

	"github.com/taigrr/marcher/pkg/scene"
)

// ACES filmic curve coefficients (Narkowicz fit).
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

// ACES maps linear radiance onto [0, 1) with a filmic shoulder.
// Negative input is treated as black.
func ACES(x float64) float64 {
	x = max(0, x)
	return x * (acesA*x + acesB) / (x*(acesC*x+acesD) + acesE)
}

// ToneMap applies ACES to each channel.
func ToneMap(c scene.Colour) scene.Colour {
	return scene.Colour{X: ACES(c.X), Y: ACES(c.Y), Z: ACES(c.Z)}
}

// Encode tone maps linear radiance, applies gamma 2 and quantises to an
// opaque 8-bit pixel.
func Encode(c scene.Colour) color.RGBA {
	g := ToneMap(c).Sqrt()
	return color.RGBA{
		R: toPixelRange(g.X),
		G: toPixelRange(g.Y),
		B: toPixelRange(g.Z),
		A: 255,
	}
}

func toPixelRange(v float64) uint8 {
	return uint8(math.Round(max(0, min(255, 255*v))))
}
