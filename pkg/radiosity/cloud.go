// Package radiosity bakes diffuse interreflection into per-object lightmaps.
//
// A bake samples every lightmap cell of every lightmapped object as a patch,
// lights the patches directly from the point light, then bounces that light
// between patches on different objects a fixed number of times. Visibility
// between patches is resolved once, up front, into a transfer matrix.
package radiosity

import (
	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

// Patch is one lightmap cell of one object.
type Patch struct {
	Object   int // index into the scene's objects
	U, V     int
	Position math3d.Vec3
	Normal   math3d.Vec3
	Albedo   scene.Colour
}

// Cloud holds every patch of every lightmapped object, grouped by object in
// scene order, then by u, then by v.
type Cloud struct {
	Patches []Patch
}

// NewCloud samples the patches of s.
func NewCloud(s *scene.Scene) *Cloud {
	idx := s.LightmappedIndexes()
	c := &Cloud{Patches: make([]Patch, 0, len(idx)*scene.MapSize*scene.MapSize)}
	for _, i := range idx {
		obj := &s.Objects[i]
		for u := range scene.MapSize {
			for v := range scene.MapSize {
				p := obj.SamplePoint(u, v)
				c.Patches = append(c.Patches, Patch{
					Object:   i,
					U:        u,
					V:        v,
					Position: p,
					Normal:   obj.Normal(p),
					Albedo:   obj.ColourAt(p),
				})
			}
		}
	}
	return c
}

// Len returns the number of patches.
func (c *Cloud) Len() int {
	return len(c.Patches)
}

// Lightmaps folds per-patch values into one map per object index.
func (c *Cloud) Lightmaps(values []scene.Colour) map[int]scene.Lightmap {
	out := make(map[int]scene.Lightmap)
	for i, p := range c.Patches {
		lm := out[p.Object]
		lm[p.U][p.V] = values[i]
		out[p.Object] = lm
	}
	return out
}

// Gather reads each patch's cell back from the lightmaps committed to s.
// Patches of unbaked objects read as black.
func (c *Cloud) Gather(s *scene.Scene) []scene.Colour {
	out := make([]scene.Colour, len(c.Patches))
	for i, p := range c.Patches {
		if lm, ok := s.Objects[p.Object].Lightmap(); ok {
			out[i] = lm.At(p.U, p.V)
		}
	}
	return out
}
