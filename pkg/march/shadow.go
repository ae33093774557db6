package march

import "github.com/taigrr/marcher/pkg/scene"

const (
	// MaxShadowIterations caps the soft-shadow loop.
	MaxShadowIterations = 16
	// PenumbraK controls penumbra sharpness; larger is harder.
	PenumbraK = 16.0
)

// SoftShadow marches toward a light lightDistance away and returns how much
// of it is visible, from 0 (umbra) to 1 (fully lit). The closest approach of
// every occluder relative to the distance travelled widens the penumbra.
//
// Touching a surface ends the march with the shade reached so far. Running
// out of iterations also keeps the current shade.
func (r *Ray) SoftShadow(objs []scene.Object, ignore int, lightDistance float64) float64 {
	shade := 1.0
	var travelled float64
	for range MaxShadowIterations {
		d, closest := Nearest(objs, ignore, r.Position)
		if closest < 0 {
			break
		}
		if travelled > 0 {
			shade = min(shade, smoothstep(clamp01(PenumbraK*d/travelled)))
		}
		if d < SmallDistance {
			break
		}
		r.Position = r.At(d)
		travelled += d
		if travelled > lightDistance {
			break
		}
	}
	return clamp01(shade)
}

func smoothstep(x float64) float64 {
	return x * x * (3 - 2*x)
}

func clamp01(x float64) float64 {
	return max(0, min(1, x))
}
