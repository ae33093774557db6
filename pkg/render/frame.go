package render

import (
	"context"
	"time"

	"github.com/taigrr/marcher/pkg/march"
	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// Frame identifies one frame of an animation.
type Frame struct {
	Index   int
	Elapsed time.Duration // since the first frame
}

// supersampleOffsets are the sub-pixel positions averaged when supersampling,
// relative to the pixel centre.
var supersampleOffsets = [4][2]float64{
	{0.25, 0},
	{-0.25, 0},
	{0, 0.25},
	{0, -0.25},
}

// RenderFrame shades every pixel of fb as seen from cam. Scanlines are
// shaded concurrently and the call returns once all of them are written.
// Cancelling ctx stops scheduling new scanlines.
func (r *Renderer) RenderFrame(ctx context.Context, cam *Camera, fb *Framebuffer, f Frame) error {
	p := r.pass(f)
	return r.scanlines(ctx, fb.Height, func(y int) {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x := range row {
			row[x] = Encode(p.pixel(cam, x, y, fb.Width, fb.Height, r.opts.Supersample))
		}
	})
}

// RenderLinear returns the linear radiance of every pixel, row-major, with
// tone mapping and encoding skipped.
func (r *Renderer) RenderLinear(ctx context.Context, cam *Camera, width, height int) ([]scene.Colour, error) {
	p := r.pass(Frame{})
	out := make([]scene.Colour, width*height)
	err := r.scanlines(ctx, height, func(y int) {
		for x := range width {
			out[y*width+x] = p.pixel(cam, x, y, width, height, r.opts.Supersample)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Renderer) scanlines(ctx context.Context, height int, shade func(y int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for y := range height {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shade(y)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *pass) pixel(cam *Camera, x, y, width, height int, supersample bool) scene.Colour {
	if !supersample {
		return p.cast(newSightRay(cam, cam.Direction(x, y, width, height)), 0)
	}
	var sum scene.Colour
	for _, o := range supersampleOffsets {
		dir := cam.DirectionAt(float64(x)+0.5+o[0], float64(y)+0.5+o[1], width, height)
		sum = sum.Add(p.cast(newSightRay(cam, dir), 0))
	}
	return sum.Scale(1.0 / float64(len(supersampleOffsets)))
}

func newSightRay(cam *Camera, dir math3d.Vec3) march.Ray {
	return march.Ray{Position: cam.Position, Direction: dir}
}

// RenderScene renders s once and returns the encoded pixels. It is the
// one-shot entry point for callers that do not keep a Renderer around.
func RenderScene(s *scene.Scene, cam *Camera, width, height int, format PixelFormat) []byte {
	fb := NewFramebuffer(width, height)
	// Background context: nothing can cancel the render, so no error occurs.
	_ = NewRenderer(s, Options{}).RenderFrame(context.Background(), cam, fb, Frame{})
	return fb.Bytes(format)
}
