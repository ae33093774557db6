package radiosity

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

func TestBakeDirectIsolatedPlane(t *testing.T) {
	light := scene.PointLight{Position: math3d.V3(0.3, 2, -0.4), Intensity: 5}
	s := &scene.Scene{
		Objects: []scene.Object{scene.NewYPlane(-2, 1, scene.BasicMaterial(), scene.SoftGray)},
		Light:   light,
	}

	stats, err := Bake(context.Background(), s, Options{Bounces: 0})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Patches != scene.MapSize*scene.MapSize || stats.LitPatches != stats.Patches {
		t.Errorf("stats = %+v, want every patch lit", stats)
	}

	floor := &s.Objects[0]
	lm, ok := floor.Lightmap()
	if !ok {
		t.Fatal("bake did not commit a lightmap")
	}
	for u := range scene.MapSize {
		for v := range scene.MapSize {
			p := floor.SamplePoint(u, v)
			toLight := light.Position.Sub(p)
			d := toLight.Len()
			cos := toLight.Y / d
			want := scene.SoftGray.Scale(cos * light.Intensity / (d * d))
			if got := lm.At(u, v); !got.ApproxEqual(want, 1e-12) {
				t.Fatalf("cell (%d,%d) = %v, want %v", u, v, got, want)
			}
			if got := floor.SampleLightmap(p); got != lm.At(u, v) {
				t.Fatalf("SampleLightmap at cell centre = %v, want %v", got, lm.At(u, v))
			}
		}
	}
}

func TestBakeOccludedPatchesStayDark(t *testing.T) {
	s := &scene.Scene{
		Objects: []scene.Object{
			scene.NewYPlane(-2, 1, scene.BasicMaterial(), scene.White),
			scene.NewSphere(math3d.V3(0, 0, 0), 1.2, scene.BasicMaterial(), scene.White),
		},
		Light: scene.PointLight{Position: math3d.V3(0, 4, 0), Intensity: 10},
	}
	if _, err := Bake(context.Background(), s, Options{Bounces: 0}); err != nil {
		t.Fatal(err)
	}
	lm, _ := s.Objects[0].Lightmap()

	// Cells (3,3)..(4,4) sit at x,z = ±0.5, straight under the sphere.
	for _, c := range [][2]int{{3, 3}, {3, 4}, {4, 3}, {4, 4}} {
		if got := lm.At(c[0], c[1]); got != (scene.Colour{}) {
			t.Errorf("shadowed cell %v = %v, want black", c, got)
		}
	}
	if lm.At(0, 0) == (scene.Colour{}) {
		t.Error("corner cell should be lit")
	}
	if _, ok := s.Objects[1].Lightmap(); ok {
		t.Error("sphere without WithLightmap should not be baked")
	}
}

func TestBakeBouncesAddEnergy(t *testing.T) {
	direct := scene.NewCornellScene()
	bounced := scene.NewCornellScene()

	d, err := Bake(context.Background(), direct, Options{Bounces: 0})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bake(context.Background(), bounced, Options{Bounces: 2})
	if err != nil {
		t.Fatal(err)
	}

	if b.Energy <= d.Energy {
		t.Errorf("two bounces energy %f <= direct %f", b.Energy, d.Energy)
	}
	if b.Links == 0 {
		t.Error("closed box should have visible patch pairs")
	}
	if d.LitPatches == 0 || d.LitPatches != b.LitPatches {
		t.Errorf("lit patches: direct %d, bounced %d", d.LitPatches, b.LitPatches)
	}

	for _, i := range direct.LightmappedIndexes() {
		dl, _ := direct.Objects[i].Lightmap()
		bl, _ := bounced.Objects[i].Lightmap()
		for u := range scene.MapSize {
			for v := range scene.MapSize {
				x, y := dl.At(u, v), bl.At(u, v)
				if y.X < x.X || y.Y < x.Y || y.Z < x.Z {
					t.Fatalf("object %d cell (%d,%d) lost light: %v -> %v", i, u, v, x, y)
				}
			}
		}
	}
}

func TestBakeSphereOptIn(t *testing.T) {
	s := scene.NewSphereOnPlaneScene()
	s.Objects[0] = s.Objects[0].WithLightmap()

	stats, err := Bake(context.Background(), s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Objects != 2 || stats.Bounces != DefaultBounces {
		t.Errorf("stats = %+v", stats)
	}
	lm, ok := s.Objects[0].Lightmap()
	if !ok || lm.Energy() == 0 {
		t.Error("opted-in sphere should receive light")
	}
}

func TestBakeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := scene.NewCornellScene()
	_, err := Bake(ctx, s, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Bake on cancelled context = %v, want context.Canceled", err)
	}
	for i := range s.Objects {
		if _, ok := s.Objects[i].Lightmap(); ok {
			t.Errorf("cancelled bake committed a lightmap to object %d", i)
		}
	}
}

func TestBakeNegativeBounces(t *testing.T) {
	if _, err := Bake(context.Background(), scene.NewCornellScene(), Options{Bounces: -1}); err == nil {
		t.Error("expected error for negative bounces")
	}
}

func TestBakeLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Bake(context.Background(), scene.NewSphereOnPlaneScene(), Options{Bounces: 1, Logger: log}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"direct pass", "transfer matrix", "bounce", "bake complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestTransferFacingPlanes(t *testing.T) {
	s := &scene.Scene{
		Objects: []scene.Object{
			scene.NewYPlane(-2, 1, scene.BasicMaterial(), scene.White),
			scene.NewYPlane(2, -1, scene.BasicMaterial(), scene.White),
		},
	}
	c := NewCloud(s)
	tr, err := buildTransfer(context.Background(), s, c, 2)
	if err != nil {
		t.Fatal(err)
	}

	const n = scene.MapSize * scene.MapSize
	for r := range c.Patches {
		if len(tr.rows[r]) != n {
			t.Fatalf("patch %d sees %d emitters, want %d", r, len(tr.rows[r]), n)
		}
	}

	weight := func(r, e int) float64 {
		for _, l := range tr.rows[r] {
			if l.from == e {
				return l.weight
			}
		}
		return 0
	}
	// Patch 0 on the floor and patch n on the ceiling share u, v: straight
	// across, 4 units apart.
	if w := weight(0, n); math.Abs(w-1.0/16) > 1e-12 {
		t.Errorf("head-on weight = %f, want 1/16", w)
	}
	for _, pair := range [][2]int{{0, n + 9}, {5, n + 40}, {63, n}} {
		a, b := weight(pair[0], pair[1]), weight(pair[1], pair[0])
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("weights %v not symmetric: %f vs %f", pair, a, b)
		}
	}
}

func BenchmarkBakeCornell(b *testing.B) {
	for b.Loop() {
		s := scene.NewCornellScene()
		if _, err := Bake(context.Background(), s, Options{Bounces: 1}); err != nil {
			b.Fatal(err)
		}
	}
}
