package scene

import "math"

// MapSize is the lightmap resolution along each axis.
const MapSize = 8

// Lightmap is a per-object grid of baked diffuse radiance indexed [u][v].
// A zero cell means "unlit or unknown" and is skipped by the sampler.
type Lightmap [MapSize][MapSize]Colour

// At returns cell (u, v).
func (lm *Lightmap) At(u, v int) Colour {
	return lm[u][v]
}

// Add returns the cell-wise sum lm + o.
func (lm *Lightmap) Add(o *Lightmap) Lightmap {
	var out Lightmap
	for u := range MapSize {
		for v := range MapSize {
			out[u][v] = lm[u][v].Add(o[u][v])
		}
	}
	return out
}

// Energy returns the sum of every channel of every cell.
func (lm *Lightmap) Energy() float64 {
	var e float64
	for u := range MapSize {
		for v := range MapSize {
			c := lm[u][v]
			e += c.X + c.Y + c.Z
		}
	}
	return e
}

func (lm *Lightmap) empty(u, v int) bool {
	return lm[u][v] == Colour{}
}

// Sample bilinearly interpolates the map at fractional grid coordinates
// (fu, fv), where cell centres sit on integers. Coordinates outside the grid
// clamp to the edge.
//
// An empty cell with non-zero weight in the 2x2 window is a hole. When one
// side of the window has a hole and the opposite side does not, the window
// shifts one cell away from the hole along that axis and the fractional
// offset is clamped into the shifted window.
func (lm *Lightmap) Sample(fu, fv float64) Colour {
	return lm.sample(clampCoord(fu), clampCoord(fv), clampIndex)
}

// SampleWrapU is Sample with u periodic, for maps whose u axis closes on
// itself such as sphere longitude.
func (lm *Lightmap) SampleWrapU(fu, fv float64) Colour {
	if math.IsNaN(fu) || math.IsInf(fu, 0) {
		fu = 0
	}
	fu = math.Mod(fu, MapSize)
	if fu < 0 {
		fu += MapSize
	}
	return lm.sample(fu, clampCoord(fv), wrapIndex)
}

// sample works in unbounded grid coordinates; uIndex maps a column onto the
// grid.
func (lm *Lightmap) sample(fu, fv float64, uIndex func(int) int) Colour {
	cell := func(u, v int) Colour {
		return lm[uIndex(u)][clampIndex(v)]
	}
	hole := func(u, v int, weight float64) bool {
		return weight > 0 && cell(u, v) == Colour{}
	}

	u0, v0 := int(math.Floor(fu)), int(math.Floor(fv))
	tu := fu - float64(u0)
	tv := fv - float64(v0)

	low := hole(u0, v0, (1-tu)*(1-tv)) || hole(u0, v0+1, (1-tu)*tv)
	high := hole(u0+1, v0, tu*(1-tv)) || hole(u0+1, v0+1, tu*tv)
	switch {
	case low && !high:
		u0++
	case high && !low:
		u0--
	}
	tu = windowFraction(fu, u0, uIndex)

	low = hole(u0, v0, (1-tu)*(1-tv)) || hole(u0+1, v0, tu*(1-tv))
	high = hole(u0, v0+1, (1-tu)*tv) || hole(u0+1, v0+1, tu*tv)
	switch {
	case low && !high:
		v0++
	case high && !low:
		v0--
	}
	tv = windowFraction(fv, v0, clampIndex)

	c0 := cell(u0, v0).Lerp(cell(u0+1, v0), tu)
	c1 := cell(u0, v0+1).Lerp(cell(u0+1, v0+1), tu)
	return c0.Lerp(c1, tv)
}

func clampIndex(i int) int {
	return max(0, min(MapSize-1, i))
}

func wrapIndex(i int) int {
	return ((i % MapSize) + MapSize) % MapSize
}

func clampCoord(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return max(0, min(MapSize-1, f))
}

// windowFraction returns where f falls in the window [i0, i0+1]. A window
// that collapses onto one cell at the grid edge has fraction 0.
func windowFraction(f float64, i0 int, index func(int) int) float64 {
	if index(i0) == index(i0+1) {
		return 0
	}
	return max(0, min(1, f-float64(i0)))
}
