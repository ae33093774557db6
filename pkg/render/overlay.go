package render

import (
	"image/color"

	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

// Overlay colours.
var (
	ColorLight = color.RGBA{255, 240, 120, 255}
	ColorUnlit = color.RGBA{255, 0, 255, 255}
	ColorAxisX = color.RGBA{255, 0, 0, 255}
	ColorAxisY = color.RGBA{0, 255, 0, 255}
	ColorAxisZ = color.RGBA{0, 0, 255, 255}
)

// PatchSize is the side in pixels of a lightmap patch marker.
const PatchSize = 2

// Overlay draws debug markers in world space on top of a rendered frame.
type Overlay struct {
	camera *Camera
	fb     *Framebuffer
}

// NewOverlay creates an overlay that projects through camera onto fb.
func NewOverlay(camera *Camera, fb *Framebuffer) *Overlay {
	return &Overlay{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space.
func (o *Overlay) DrawLine3D(p1, p2 math3d.Vec3, c color.RGBA) {
	x1, y1, _, vis1 := o.camera.WorldToScreen(p1, o.fb.Width, o.fb.Height)
	x2, y2, _, vis2 := o.camera.WorldToScreen(p2, o.fb.Width, o.fb.Height)

	// Both ends must project; a line with one end behind the camera would
	// need clipping.
	if !vis1 || !vis2 {
		return
	}
	o.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), c)
}

// DrawPoint draws a point as a small 3D cross.
func (o *Overlay) DrawPoint(pos math3d.Vec3, size float64, c color.RGBA) {
	h := size / 2
	o.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	o.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	o.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), c)
}

// DrawAxes draws the coordinate axes at origin.
func (o *Overlay) DrawAxes(origin math3d.Vec3, length float64) {
	o.DrawLine3D(origin, origin.Add(math3d.V3(length, 0, 0)), ColorAxisX)
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, length, 0)), ColorAxisY)
	o.DrawLine3D(origin, origin.Add(math3d.V3(0, 0, length)), ColorAxisZ)
}

// DrawLight marks the light position.
func (o *Overlay) DrawLight(l scene.PointLight) {
	o.DrawPoint(l.Position, 0.3, ColorLight)
}

// DrawPatches marks every lightmap cell of every lightmapped object with its
// baked colour. Cells that are still zero, or objects never baked, are drawn
// magenta. Patches on the far side of their surface are skipped.
func (o *Overlay) DrawPatches(s *scene.Scene) {
	for _, i := range s.LightmappedIndexes() {
		obj := &s.Objects[i]
		lm, baked := obj.Lightmap()
		for u := range scene.MapSize {
			for v := range scene.MapSize {
				p := obj.SamplePoint(u, v)
				if obj.Normal(p).Dot(o.camera.Position.Sub(p)) <= 0 {
					continue
				}
				x, y, _, ok := o.camera.WorldToScreen(p, o.fb.Width, o.fb.Height)
				if !ok {
					continue
				}
				c := ColorUnlit
				if baked && lm.At(u, v) != (scene.Colour{}) {
					c = Encode(lm.At(u, v))
				}
				o.fb.DrawRect(int(x)-PatchSize/2, int(y)-PatchSize/2, PatchSize, PatchSize, c)
			}
		}
	}
}
