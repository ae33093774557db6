// Package march implements sphere tracing over a set of signed distance
// fields, plus the soft-shadow variant used for penumbrae.
//
// Every object's Distance must be a lower bound on the true distance to its
// surface (Lipschitz-1). Sphere tracing steps by that bound, so a distance
// that overestimates lets rays tunnel through thin geometry.
package march

import (
	"math"

	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

const (
	// SmallDistance is the hit threshold.
	SmallDistance = 0.001
	// MaxMarchDistance is the scene-scale travel bound for sight rays.
	MaxMarchDistance = 50.0
	// MaxMarchSteps bounds the step count for fields that converge slowly
	// without ever crossing SmallDistance.
	MaxMarchSteps = 512
	// NoIgnore passed as the ignore index considers every object.
	NoIgnore = -1
)

// Ray is a half-line. Position advances while marching.
type Ray struct {
	Position  math3d.Vec3
	Direction math3d.Vec3 // unit length
}

// NewRay creates a ray, normalising dir.
func NewRay(origin, dir math3d.Vec3) Ray {
	return Ray{Position: origin, Direction: dir.Normalize()}
}

// At returns the point t units along the ray from its current position.
func (r *Ray) At(t float64) math3d.Vec3 {
	return r.Position.Add(r.Direction.Scale(t))
}

// March sphere-traces the ray through objs, skipping objs[ignore]. On a hit
// it returns the object index with the ray left at the hit point.
// Travelling past MaxMarchDistance is a miss.
func (r *Ray) March(objs []scene.Object, ignore int) (idx int, hit bool) {
	return r.MarchTo(objs, ignore, MaxMarchDistance)
}

// MarchTo is March with a caller-supplied travel limit. A miss means the ray
// covered limit without touching anything.
func (r *Ray) MarchTo(objs []scene.Object, ignore int, limit float64) (idx int, hit bool) {
	var travelled float64
	for range MaxMarchSteps {
		d, closest := Nearest(objs, ignore, r.Position)
		if closest < 0 {
			return -1, false
		}
		if d < SmallDistance {
			return closest, true
		}
		r.Position = r.At(d)
		travelled += d
		if travelled > limit {
			return -1, false
		}
	}
	return -1, false
}

// Nearest returns the smallest distance from p to any object other than
// objs[ignore], and that object's index. The index is -1 when every object
// is ignored.
func Nearest(objs []scene.Object, ignore int, p math3d.Vec3) (float64, int) {
	best, closest := math.Inf(1), -1
	for i := range objs {
		if i == ignore {
			continue
		}
		if d := objs[i].Distance(p); d < best {
			best, closest = d, i
		}
	}
	return best, closest
}
