package render

import (
	"math"
	"runtime"

	"github.com/taigrr/marcher/internal/invariant"
	"github.com/taigrr/marcher/pkg/march"
	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

const (
	// MaxReflectionDepth caps recursive reflection rays. At the cap the
	// surface keeps its direct lighting and drops the mirror term.
	MaxReflectionDepth = 5
	// AmbientFloor is the lightmap magnitude below which a sample counts as
	// unlit and the flat ambient term is used instead.
	AmbientFloor = 1e-4
	// ReflectionOffset moves reflection rays off the surface they leave.
	ReflectionOffset = 3 * march.SmallDistance
)

// Options configures a Renderer.
type Options struct {
	// Workers bounds the scanlines shaded concurrently. 0 means
	// runtime.NumCPU().
	Workers int
	// Supersample averages four sub-pixel rays per pixel.
	Supersample bool
	// AnimateLight orbits the light around its scene position over time.
	AnimateLight bool
}

// Renderer shades a scene. The scene's lightmaps must not change while a
// frame is being rendered; swap in a re-baked clone with SetScene between
// frames instead.
type Renderer struct {
	scene *scene.Scene
	opts  Options
}

// NewRenderer creates a renderer for s.
func NewRenderer(s *scene.Scene, opts Options) *Renderer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Renderer{scene: s, opts: opts}
}

// Scene returns the scene being rendered.
func (r *Renderer) Scene() *scene.Scene {
	return r.scene
}

// SetScene replaces the scene. Call it between frames only.
func (r *Renderer) SetScene(s *scene.Scene) {
	r.scene = s
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options. Call it between frames only.
func (r *Renderer) SetOptions(opts Options) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	r.opts = opts
}

// CastSightRay returns the linear radiance seen along ray with the scene's
// light in its rest position.
func (r *Renderer) CastSightRay(ray march.Ray) scene.Colour {
	p := r.pass(Frame{})
	return p.cast(ray, 0)
}

// Shade returns the linear radiance leaving objs[idx] at pos toward a viewer
// looking along view.
func (r *Renderer) Shade(idx int, pos, view math3d.Vec3) scene.Colour {
	p := r.pass(Frame{})
	return p.shade(idx, pos, view, 0)
}

// pass is the read-only state of one frame.
type pass struct {
	objs  []scene.Object
	light scene.PointLight
	sky   scene.Colour
}

func (r *Renderer) pass(f Frame) *pass {
	light := r.scene.Light
	if r.opts.AnimateLight {
		light = OrbitLight(light, f.Elapsed.Seconds())
	}
	return &pass{
		objs:  r.scene.Objects,
		light: light,
		sky:   scene.SkyColour,
	}
}

func (p *pass) cast(ray march.Ray, depth int) scene.Colour {
	idx, hit := ray.March(p.objs, march.NoIgnore)
	if !hit {
		return p.sky
	}
	return p.shade(idx, ray.Position, ray.Direction, depth)
}

// shade is Phong lighting under a soft shadow, on top of a baked or flat
// ambient term, plus a Fresnel-weighted reflection.
func (p *pass) shade(idx int, pos, view math3d.Vec3, depth int) scene.Colour {
	obj := &p.objs[idx]
	mat := obj.Material()
	base := obj.ColourAt(pos)
	n := obj.Normal(pos)

	ambient := base.Scale(mat.Ambient)
	if obj.HasLightmap() {
		if gi := obj.SampleLightmap(pos); gi.Len() >= AmbientFloor {
			ambient = gi.Mul(base)
		}
	}

	toLight := p.light.Position.Sub(pos)
	dist := toLight.Len()
	if dist == 0 {
		invariant.Check(false, "light coincides with shaded point")
		return ambient
	}
	l := toLight.Div(dist)
	intensity := p.light.IntensityAt(dist)

	diffuse := mat.Diffuse * intensity * max(0, n.Dot(l))
	var specular float64
	if diffuse > 0 {
		specular = mat.Specular * intensity * math.Pow(max(0, l.Reflect(n).Dot(view)), mat.Shininess)
	}

	shadow := march.Ray{Position: pos, Direction: l}
	shade := shadow.SoftShadow(p.objs, idx, dist)

	colour := ambient.Add(base.Scale(shade * (diffuse + specular)))

	if mat.Reflective() && depth < MaxReflectionDepth {
		fresnel := math.Pow(clamp01(1-n.Dot(view.Negate())), 5)
		dir := view.Reflect(n)
		ray := march.Ray{Position: pos.Add(dir.Scale(ReflectionOffset)), Direction: dir}
		reflected := p.cast(ray, depth+1)
		colour = colour.Add(reflected.Mul(base).Scale(clamp01(fresnel + mat.Reflectivity)))
	}
	return colour
}

// LightOrbitRadius and LightOrbitSpeed (radians per second) shape the
// animated light path.
const (
	LightOrbitRadius = 1.5
	LightOrbitSpeed  = 0.5
)

// OrbitLight moves l around its rest position in the horizontal plane.
func OrbitLight(l scene.PointLight, seconds float64) scene.PointLight {
	a := LightOrbitSpeed * seconds
	l.Position = l.Position.Add(math3d.V3(
		LightOrbitRadius*(math.Cos(a)-1),
		0,
		LightOrbitRadius*math.Sin(a),
	))
	return l
}

func clamp01(x float64) float64 {
	return max(0, min(1, x))
}
