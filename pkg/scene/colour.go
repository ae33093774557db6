package scene

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/marcher/pkg/math3d"
)

// Colour is linear RGB radiance. It shares the vector type so shading math
// can mix positions, normals and colours without conversions.
type Colour = math3d.Vec3

// Palette, declared in sRGB and stored linear.
var (
	White      = MustHex("#ffffff")
	Black      = Colour{}
	SoftGray   = MustHex("#c8c8c8")
	SoftRed    = MustHex("#d9594c")
	SoftGreen  = MustHex("#5cb85c")
	SoftYellow = MustHex("#f5d76e")
	SkyColour  = MustHex("#87ceeb")
)

// Hex decodes an sRGB hex colour ("#rrggbb") into linear radiance.
func Hex(s string) (Colour, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Colour{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.LinearRgb()
	return math3d.V3(r, g, b), nil
}

// MustHex is Hex for package-level literals; it panics on malformed input.
func MustHex(s string) Colour {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Linear8 converts 8-bit sRGB channels to linear radiance.
func Linear8(r, g, b uint8) Colour {
	lr, lg, lb := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.LinearRgb()
	return math3d.V3(lr, lg, lb)
}
