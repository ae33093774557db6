package scene

import (
	"testing"

	"github.com/taigrr/marcher/pkg/math3d"
)

func TestBuiltinScenes(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := ByName(name)
			if err != nil {
				t.Fatal(err)
			}
			if s.Name != name {
				t.Errorf("Name = %q, want %q", s.Name, name)
			}
			if len(s.Objects) == 0 {
				t.Error("scene has no objects")
			}
			if s.Light.Intensity <= 0 {
				t.Error("scene light has no intensity")
			}
			for i := range s.Objects {
				if d := s.Objects[i].Distance(s.Eye); d <= 0 {
					t.Errorf("eye is inside object %d (%s)", i, s.Objects[i].Kind)
				}
				if d := s.Objects[i].Distance(s.Light.Position); d <= 0 {
					t.Errorf("light is inside object %d (%s)", i, s.Objects[i].Kind)
				}
			}
		})
	}

	if _, err := ByName("teapot"); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestCornellLightmapped(t *testing.T) {
	s := NewCornellScene()
	idx := s.LightmappedIndexes()
	if len(idx) != 6 {
		t.Fatalf("lightmapped objects = %d, want the 6 walls", len(idx))
	}
	for _, i := range idx {
		if s.Objects[i].Kind == KindSphere {
			t.Errorf("object %d is a sphere; spheres opt in", i)
		}
	}
}

func TestCloneIsolatesLightmaps(t *testing.T) {
	s := NewSphereOnPlaneScene()
	c := s.Clone()

	var lm Lightmap
	lm[0][0] = math3d.Splat(1)
	c.Objects[1].SetLightmap(lm)

	if _, ok := s.Objects[1].Lightmap(); ok {
		t.Error("baking the clone leaked into the original")
	}
	if _, ok := c.Objects[1].Lightmap(); !ok {
		t.Error("clone lost its lightmap")
	}
}

func TestWithFloorTexture(t *testing.T) {
	s := NewSphereOnPlaneScene()
	tex := NewCheckerTexture(2, 2, 1, math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	c := s.WithFloorTexture(tex)

	p := math3d.V3(0.25, -2, 0.25)
	if s.Objects[1].ColourAt(p) != SoftGray {
		t.Error("original floor should stay untextured")
	}
	if c.Objects[1].ColourAt(p) == SoftGray {
		t.Error("textured floor should differ from the base colour")
	}
	if c.Objects[0].ColourAt(p) != White {
		t.Error("sphere should be untouched")
	}
}
