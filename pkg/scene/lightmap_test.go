package scene

import (
	"math"
	"testing"

	"github.com/taigrr/marcher/pkg/math3d"
)

// linearMap holds a value that varies linearly with the cell, so bilinear
// interpolation reproduces it exactly.
func linearMap() Lightmap {
	var lm Lightmap
	for u := range MapSize {
		for v := range MapSize {
			lm[u][v] = math3d.Splat(float64(u) + 10*float64(v) + 1)
		}
	}
	return lm
}

func TestLightmapSampleInterpolates(t *testing.T) {
	lm := linearMap()
	tests := []struct {
		name   string
		fu, fv float64
		want   float64
	}{
		{"cell centre", 3, 4, 44},
		{"midpoint u", 2.5, 4, 43.5},
		{"midpoint v", 2, 4.25, 45.5},
		{"both", 2.5, 4.25, 46},
		{"clamped low", -3, -1, 1},
		{"clamped high", 12, 9, 78},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lm.Sample(tc.fu, tc.fv)
			if math.Abs(got.X-tc.want) > 1e-9 {
				t.Errorf("Sample(%f,%f) = %f, want %f", tc.fu, tc.fv, got.X, tc.want)
			}
		})
	}
}

func TestLightmapSampleHoleRepair(t *testing.T) {
	t.Run("empty edge column", func(t *testing.T) {
		var lm Lightmap
		for u := 1; u < MapSize; u++ {
			for v := range MapSize {
				lm[u][v] = math3d.Splat(2)
			}
		}
		got := lm.Sample(0.5, 3.5)
		if got != math3d.Splat(2) {
			t.Errorf("Sample next to empty column = %v, want (2,2,2)", got)
		}
	})

	t.Run("single hole", func(t *testing.T) {
		lm := linearMap()
		lm[3][3] = Colour{}
		got := lm.Sample(3.5, 3.5)
		// The window moves to u in [4,5]; the fraction clamps onto u=4.
		want := lm.Sample(4, 3.5)
		if got == (Colour{}) || math.Abs(got.X-want.X) > 1e-9 {
			t.Errorf("Sample over hole = %v, want %v", got, want)
		}
	})

	t.Run("empty edge row", func(t *testing.T) {
		var lm Lightmap
		for u := range MapSize {
			for v := range MapSize - 1 {
				lm[u][v] = math3d.Splat(3)
			}
		}
		got := lm.Sample(4.5, 6.5)
		if got != math3d.Splat(3) {
			t.Errorf("Sample next to empty row = %v, want (3,3,3)", got)
		}
	})

	t.Run("all empty", func(t *testing.T) {
		var lm Lightmap
		if got := lm.Sample(4.2, 1.7); got != (Colour{}) {
			t.Errorf("Sample of empty map = %v, want black", got)
		}
	})
}

func TestLightmapAddEnergy(t *testing.T) {
	var a, b Lightmap
	a[0][0] = math3d.V3(1, 2, 3)
	b[0][0] = math3d.V3(1, 0, 0)
	b[7][7] = math3d.Splat(1)

	sum := a.Add(&b)
	if sum.At(0, 0) != math3d.V3(2, 2, 3) {
		t.Errorf("Add cell = %v, want (2,2,3)", sum.At(0, 0))
	}
	if e := sum.Energy(); e != 10 {
		t.Errorf("Energy = %f, want 10", e)
	}
}
