package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/marcher/internal/invariant"
	"github.com/taigrr/marcher/pkg/math3d"
)

// NormalEpsilon is the finite-difference step used to estimate normals.
const NormalEpsilon = 1e-4

// Kind identifies the shape of an Object.
type Kind int

const (
	KindSphere Kind = iota
	KindXPlane      // plane perpendicular to the X axis
	KindYPlane      // plane perpendicular to the Y axis
	KindZPlane      // plane perpendicular to the Z axis
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindXPlane:
		return "xplane"
	case KindYPlane:
		return "yplane"
	case KindZPlane:
		return "zplane"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is a renderable implicit surface. The set of shapes is closed; every
// operation dispatches on Kind.
//
// Geometry and appearance are fixed at construction. Only the lightmap
// changes, and only through SetLightmap and ClearLightmap.
type Object struct {
	Kind Kind

	// Sphere geometry.
	Center math3d.Vec3
	Radius float64

	// Plane geometry. The plane sits at axis == Offset and Facing (+1 or -1)
	// selects which half-space is outside.
	Offset float64
	Facing float64

	material    Material
	colour      Colour
	texture     *Texture
	lightmapped bool
	lightmap    *Lightmap // nil until baked
}

// NewSphere creates a sphere. Spheres are not lightmapped unless
// WithLightmap is applied.
func NewSphere(center math3d.Vec3, radius float64, mat Material, colour Colour) Object {
	return Object{
		Kind:     KindSphere,
		Center:   center,
		Radius:   radius,
		material: mat,
		colour:   colour,
	}
}

// NewXPlane creates the plane x == offset. Facing +1 puts the outside at
// larger x.
func NewXPlane(offset, facing float64, mat Material, colour Colour) Object {
	return newPlane(KindXPlane, offset, facing, mat, colour)
}

// NewYPlane creates the plane y == offset. Facing +1 puts the outside above.
func NewYPlane(offset, facing float64, mat Material, colour Colour) Object {
	return newPlane(KindYPlane, offset, facing, mat, colour)
}

// NewZPlane creates the plane z == offset. Facing +1 puts the outside at
// larger z.
func NewZPlane(offset, facing float64, mat Material, colour Colour) Object {
	return newPlane(KindZPlane, offset, facing, mat, colour)
}

func newPlane(kind Kind, offset, facing float64, mat Material, colour Colour) Object {
	if facing < 0 {
		facing = -1
	} else {
		facing = 1
	}
	return Object{
		Kind:        kind,
		Offset:      offset,
		Facing:      facing,
		material:    mat,
		colour:      colour,
		lightmapped: true,
	}
}

// WithLightmap returns a copy of o that takes part in the bake.
func (o Object) WithLightmap() Object {
	o.lightmapped = true
	return o
}

// WithoutLightmap returns a copy of o that is excluded from the bake.
func (o Object) WithoutLightmap() Object {
	o.lightmapped = false
	o.lightmap = nil
	return o
}

// WithTexture returns a copy of o whose colour is modulated by tex.
func (o Object) WithTexture(tex *Texture) Object {
	o.texture = tex
	return o
}

// Distance returns the signed distance from p to the surface, negative
// inside. Every shape is Lipschitz-1.
func (o *Object) Distance(p math3d.Vec3) float64 {
	switch o.Kind {
	case KindSphere:
		return p.Sub(o.Center).Len() - o.Radius
	case KindXPlane:
		return o.Facing * (p.X - o.Offset)
	case KindYPlane:
		return o.Facing * (p.Y - o.Offset)
	case KindZPlane:
		return o.Facing * (p.Z - o.Offset)
	default:
		invariant.Check(false, "unknown object kind "+o.Kind.String())
		return math.Inf(1)
	}
}

// Normal estimates the outward unit normal at p with centred differences.
func (o *Object) Normal(p math3d.Vec3) math3d.Vec3 {
	const e = NormalEpsilon
	dx := math3d.V3(e, 0, 0)
	dy := math3d.V3(0, e, 0)
	dz := math3d.V3(0, 0, e)
	return math3d.V3(
		o.Distance(p.Add(dx))-o.Distance(p.Sub(dx)),
		o.Distance(p.Add(dy))-o.Distance(p.Sub(dy)),
		o.Distance(p.Add(dz))-o.Distance(p.Sub(dz)),
	).Normalize()
}

// Material returns the surface material.
func (o *Object) Material() Material {
	return o.material
}

// ColourAt returns the base reflectance at surface point p.
func (o *Object) ColourAt(p math3d.Vec3) Colour {
	if o.texture == nil {
		return o.colour
	}
	var u, v float64
	if o.Kind == KindSphere {
		u, v = o.sphereAngles(p)
	} else {
		u, v = o.planeCoords(p)
	}
	return o.texture.Sample(u, v).Mul(o.colour)
}

// Lightmapped reports whether the object takes part in the bake.
func (o *Object) Lightmapped() bool {
	return o.lightmapped
}

// Lightmap returns a copy of the baked map. ok is false until a map is set.
func (o *Object) Lightmap() (lm Lightmap, ok bool) {
	if o.lightmap == nil {
		return Lightmap{}, false
	}
	return *o.lightmap, true
}

// HasLightmap reports whether a map has been set, without copying it.
func (o *Object) HasLightmap() bool {
	return o.lightmap != nil
}

// SetLightmap replaces the baked map. The stored map is never mutated in
// place, so copies of the object may share it.
func (o *Object) SetLightmap(lm Lightmap) {
	invariant.Check(o.lightmapped, "SetLightmap on an object that is not lightmapped")
	o.lightmap = &lm
}

// ClearLightmap resets the map to all zeros for lightmapped objects and to
// nothing for the rest.
func (o *Object) ClearLightmap() {
	if !o.lightmapped {
		o.lightmap = nil
		return
	}
	o.lightmap = &Lightmap{}
}

// SamplePoint returns the world position of lightmap cell (u, v).
func (o *Object) SamplePoint(u, v int) math3d.Vec3 {
	invariant.Check(u >= 0 && u < MapSize && v >= 0 && v < MapSize, "lightmap cell out of range")
	if o.Kind == KindSphere {
		theta := (float64(u)+0.5)/MapSize*2*math.Pi - math.Pi
		phi := (float64(v)+0.5)/MapSize*math.Pi - math.Pi/2
		dir := math3d.V3(
			math.Cos(phi)*math.Cos(theta),
			math.Sin(phi),
			math.Cos(phi)*math.Sin(theta),
		)
		return o.Center.Add(dir.Scale(o.Radius))
	}

	a := float64(u) - MapSize/2 + 0.5
	b := float64(v) - MapSize/2 + 0.5
	switch o.Kind {
	case KindXPlane:
		return math3d.V3(o.Offset, a, b)
	case KindYPlane:
		return math3d.V3(a, o.Offset, b)
	default:
		return math3d.V3(a, b, o.Offset)
	}
}

// UV maps a surface point to fractional lightmap coordinates. Cell centres
// land on integers, so UV(SamplePoint(u, v)) is (u, v). Sphere u is
// longitude and wraps at the seam between MapSize-0.5 and -0.5.
func (o *Object) UV(p math3d.Vec3) (fu, fv float64) {
	if o.Kind == KindSphere {
		s, t := o.sphereAngles(p)
		return s*MapSize - 0.5, t*MapSize - 0.5
	}
	a, b := o.planeCoords(p)
	return a + MapSize/2 - 0.5, b + MapSize/2 - 0.5
}

// SampleLightmap returns the baked radiance at surface point p.
// Sampling an object that was never baked returns black.
func (o *Object) SampleLightmap(p math3d.Vec3) Colour {
	if o.lightmap == nil {
		invariant.Check(false, "SampleLightmap on an unbaked object")
		return Colour{}
	}
	fu, fv := o.UV(p)
	if o.Kind == KindSphere {
		return o.lightmap.SampleWrapU(fu, fv)
	}
	return o.lightmap.Sample(fu, fv)
}

// planeCoords returns the two in-plane world coordinates of p.
func (o *Object) planeCoords(p math3d.Vec3) (a, b float64) {
	switch o.Kind {
	case KindXPlane:
		return p.Y, p.Z
	case KindYPlane:
		return p.X, p.Z
	default:
		return p.X, p.Y
	}
}

// sphereAngles maps p to longitude/latitude in [0,1]².
func (o *Object) sphereAngles(p math3d.Vec3) (s, t float64) {
	d := p.Sub(o.Center).Normalize()
	s = (math.Atan2(d.Z, d.X) + math.Pi) / (2 * math.Pi)
	t = (math.Asin(max(-1, min(1, d.Y))) + math.Pi/2) / math.Pi
	return s, t
}
