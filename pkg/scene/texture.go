package scene

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture is a repeating colour source for textured surfaces.
// Pixels hold linear radiance, not 8-bit sRGB.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Colour   // Row-major pixel data
	Scale      float64    // Texture repeats per world unit
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Colour, width*height),
		Scale:      1,
		FilterMode: FilterNearest,
	}
}

// LoadTexture loads a PNG or JPEG file and converts it to linear colour.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Linear8(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Colour) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewWoodTexture creates a procedural plank texture: warm stripes along u
// with a ring pattern modulated along v.
func NewWoodTexture(width, height int) *Texture {
	light := MustHex("#c19a6b")
	dark := MustHex("#8b5a2b")
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			fx := float64(x) / float64(width)
			fy := float64(y) / float64(height)
			ring := 0.5 + 0.5*math.Sin(2*math.Pi*(6*fx+0.35*math.Sin(2*math.Pi*fy)))
			tex.SetPixel(x, y, dark.Lerp(light, ring))
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Colour) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Colour {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Colour{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at surface coordinates (u, v) in world units.
// The texture tiles every 1/Scale units in both directions.
func (t *Texture) Sample(u, v float64) Colour {
	if t.Width == 0 || t.Height == 0 {
		return Colour{}
	}
	u = wrapCoord(u * t.Scale)
	v = wrapCoord(v * t.Scale)

	// Flip V coordinate (image Y=0 at top, UV V=0 at bottom)
	v = 1.0 - v

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

// wrapCoord repeats a coordinate into [0,1).
func wrapCoord(coord float64) float64 {
	return coord - math.Floor(coord)
}

func (t *Texture) sampleNearest(u, v float64) Colour {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Colour {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapPixel(x0+1, t.Width)
	y1 := wrapPixel(y0+1, t.Height)
	x0 = wrapPixel(x0, t.Width)
	y0 = wrapPixel(y0, t.Height)

	top := t.GetPixel(x0, y0).Lerp(t.GetPixel(x1, y0), tx)
	bot := t.GetPixel(x0, y1).Lerp(t.GetPixel(x1, y1), tx)
	return top.Lerp(bot, ty)
}

func wrapPixel(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}
