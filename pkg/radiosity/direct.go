package radiosity

import (
	"context"

	"github.com/taigrr/marcher/internal/invariant"
	"github.com/taigrr/marcher/pkg/march"
	"github.com/taigrr/marcher/pkg/scene"
)

// directPass returns each patch's Lambertian response to the point light.
// A patch is lit only when a ray toward the light covers the whole distance
// without touching another object.
func directPass(ctx context.Context, s *scene.Scene, c *Cloud, workers int) ([]scene.Colour, error) {
	out := make([]scene.Colour, c.Len())
	err := forEach(ctx, workers, c.Len(), func(i int) {
		out[i] = directLight(s, &c.Patches[i])
	})
	return out, err
}

func directLight(s *scene.Scene, p *Patch) scene.Colour {
	toLight := s.Light.Position.Sub(p.Position)
	dist := toLight.Len()
	if dist == 0 {
		invariant.Check(false, "light coincides with a patch")
		return scene.Colour{}
	}
	l := toLight.Div(dist)
	cos := p.Normal.Dot(l)
	if cos <= 0 {
		return scene.Colour{}
	}

	ray := march.Ray{Position: p.Position, Direction: l}
	if _, hit := ray.MarchTo(s.Objects, p.Object, dist); hit {
		return scene.Colour{}
	}
	return p.Albedo.Scale(cos * s.Light.IntensityAt(dist))
}
