package scene

import "github.com/taigrr/marcher/pkg/math3d"

// PointLight is an isotropic light with inverse-square falloff.
type PointLight struct {
	Position  math3d.Vec3
	Intensity float64
}

// IntensityAt returns the light's irradiance scale at distance d.
// d must be positive.
func (l PointLight) IntensityAt(d float64) float64 {
	return l.Intensity / (d * d)
}
