package scene

import (
	"testing"

	"github.com/taigrr/marcher/pkg/math3d"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Colour
		wantErr bool
	}{
		{"white", "#ffffff", math3d.Splat(1), false},
		{"black", "#000000", Colour{}, false},
		{"red", "#ff0000", math3d.V3(1, 0, 0), false},
		{"garbage", "sky", Colour{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Hex(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Hex(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !got.ApproxEqual(tc.want, 1e-12) {
				t.Errorf("Hex(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPaletteIsLinear(t *testing.T) {
	// #87ceeb is (0.53, 0.81, 0.92) in sRGB; linear values are darker.
	if SkyColour.X > 0.3 || SkyColour.X < 0.2 {
		t.Errorf("SkyColour.X = %f, want about 0.24", SkyColour.X)
	}
	if SkyColour.Z <= SkyColour.X {
		t.Errorf("sky should be blue-dominant: %v", SkyColour)
	}
	if Linear8(255, 255, 255) != math3d.Splat(1) {
		t.Errorf("Linear8 white = %v", Linear8(255, 255, 255))
	}
}
