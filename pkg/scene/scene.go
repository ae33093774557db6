// Package scene defines the implicit-surface object model: materials,
// shapes, the point light, lightmaps and the built-in scenes.
package scene

import (
	"fmt"
	"slices"
	"sort"

	"github.com/taigrr/marcher/pkg/math3d"
)

// Scene is a set of objects lit by one point light. Eye and Target give a
// suggested starting camera.
type Scene struct {
	Name    string
	Objects []Object
	Light   PointLight
	Eye     math3d.Vec3
	Target  math3d.Vec3
}

// LightmappedIndexes returns the indexes of objects that take part in the bake.
func (s *Scene) LightmappedIndexes() []int {
	var idx []int
	for i := range s.Objects {
		if s.Objects[i].Lightmapped() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns a copy of s whose objects can be re-baked without touching
// the original. Lightmaps are replaced wholesale on write, so the copy may
// share them until then.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Objects = slices.Clone(s.Objects)
	return &c
}

// WithFloorTexture returns a clone of s whose downward-facing floor planes
// use tex.
func (s *Scene) WithFloorTexture(tex *Texture) *Scene {
	c := s.Clone()
	for i := range c.Objects {
		o := &c.Objects[i]
		if o.Kind == KindYPlane && o.Facing > 0 {
			*o = o.WithTexture(tex)
		}
	}
	return c
}

var builtins = map[string]func() *Scene{
	"cornell":         NewCornellScene,
	"sphere-on-plane": NewSphereOnPlaneScene,
}

// Names lists the built-in scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName builds a built-in scene.
func ByName(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, Names())
	}
	return build(), nil
}

// NewCornellScene builds the box: a mirror sphere and a glossy yellow sphere
// inside six coloured walls, lit from the front right.
func NewCornellScene() *Scene {
	mirror := Material{Ambient: 0.05, Diffuse: 0.03, Specular: 0.2, Shininess: 16, Reflectivity: 1.0}
	glossy := Material{Ambient: 0.1, Diffuse: 1.0, Specular: 0.9, Shininess: 32, Reflectivity: 0.25}
	basic := BasicMaterial()

	floor := NewYPlane(-2, 1, basic, SoftGray).WithTexture(NewWoodTexture(64, 64))
	return &Scene{
		Name: "cornell",
		Objects: []Object{
			NewSphere(math3d.V3(-1.2, -1, 0.1), 1, mirror, White),
			NewSphere(math3d.V3(1, -1, -0.7), 1, glossy, SoftYellow),
			floor,
			NewYPlane(4, -1, basic, SoftGray),
			NewXPlane(-3, 1, basic, SoftRed),
			NewXPlane(3, -1, basic, SoftGreen),
			NewZPlane(2, -1, basic, SoftGray),
			NewZPlane(-4, 1, basic, SoftGray),
		},
		Light:  PointLight{Position: math3d.V3(2, -1, 1.5), Intensity: 3.5},
		Eye:    math3d.V3(0, 0.5, -3.5),
		Target: math3d.V3(0, 0.5, 0),
	}
}

// NewSphereOnPlaneScene builds a white diffuse unit sphere resting on a floor
// with the light straight above it.
func NewSphereOnPlaneScene() *Scene {
	matte := Material{Ambient: 0.1, Diffuse: 1.0, Specular: 0, Shininess: 8, Reflectivity: 0}
	return &Scene{
		Name: "sphere-on-plane",
		Objects: []Object{
			NewSphere(math3d.V3(0, -1, 0), 1, matte, White),
			NewYPlane(-2, 1, BasicMaterial(), SoftGray),
		},
		Light:  PointLight{Position: math3d.V3(0, 4, 0), Intensity: 20},
		Eye:    math3d.V3(0, 1, -6),
		Target: math3d.V3(0, -1.5, 0),
	}
}
