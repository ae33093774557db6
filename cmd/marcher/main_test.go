package main

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBakeCommand(t *testing.T) {
	glb := filepath.Join(t.TempDir(), "cloud.glb")
	out, err := execute(t, "bake", "--scene", "sphere-on-plane", "--bounces", "1", "--glb", glb)
	if err != nil {
		t.Fatalf("bake: %v\n%s", err, out)
	}
	if !strings.Contains(out, "sphere-on-plane: 1 objects, 64 patches") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	doc, err := gltf.Open(glb)
	if err != nil {
		t.Fatalf("open exported cloud: %v", err)
	}
	if len(doc.Meshes) != 1 {
		t.Errorf("meshes = %d, want 1", len(doc.Meshes))
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("png", func(t *testing.T) {
		path := filepath.Join(dir, "frame.png")
		if out, err := execute(t, "render", "--scene", "sphere-on-plane", "--bounces", "0",
			"--width", "16", "--height", "12", "-o", path); err != nil {
			t.Fatalf("render: %v\n%s", err, out)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
			t.Errorf("size = %v, want 16x12", b)
		}
	})

	t.Run("raw bgra", func(t *testing.T) {
		path := filepath.Join(dir, "frame.bgra")
		if out, err := execute(t, "render", "--scene", "sphere-on-plane", "--bounces", "0",
			"--width", "8", "--height", "4", "--raw", "bgra", "-o", path); err != nil {
			t.Fatalf("render: %v\n%s", err, out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != 8*4*4 {
			t.Errorf("len = %d, want %d", len(data), 8*4*4)
		}
	})

	t.Run("fov flag", func(t *testing.T) {
		if _, err := execute(t, "render", "--scene", "sphere-on-plane", "--bounces", "0",
			"--width", "2", "--height", "2", "--fov", "200", "-o", filepath.Join(dir, "fov.png")); err == nil {
			t.Error("expected error for out-of-range fov")
		}
	})

	t.Run("bad size", func(t *testing.T) {
		if _, err := execute(t, "render", "--width", "0"); err == nil {
			t.Error("expected error for zero width")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		path := filepath.Join(dir, "bad.raw")
		if _, err := execute(t, "render", "--scene", "sphere-on-plane", "--bounces", "0",
			"--width", "2", "--height", "2", "--raw", "argb", "-o", path); err == nil {
			t.Error("expected error for unknown pixel format")
		}
	})
}

func TestLoadScene(t *testing.T) {
	t.Run("unknown", func(t *testing.T) {
		o := &options{scene: "nope"}
		if _, err := o.loadScene(); err == nil {
			t.Error("expected error for unknown scene")
		}
	})

	t.Run("missing texture", func(t *testing.T) {
		o := &options{scene: "cornell", texture: filepath.Join(t.TempDir(), "none.png")}
		if _, err := o.loadScene(); err == nil {
			t.Error("expected error for missing texture")
		}
	})

	t.Run("camera looks at target", func(t *testing.T) {
		o := &options{scene: "sphere-on-plane", fov: 60}
		s, err := o.loadScene()
		if err != nil {
			t.Fatal(err)
		}
		cam, err := o.camera(s)
		if err != nil {
			t.Fatal(err)
		}
		want := s.Target.Sub(s.Eye).Normalize()
		if got := cam.Forward(); !got.ApproxEqual(want, 1e-9) {
			t.Errorf("Forward() = %v, want %v", got, want)
		}
		if math.Abs(cam.FOV-math.Pi/3) > 1e-12 {
			t.Errorf("FOV = %f, want pi/3", cam.FOV)
		}
	})

	t.Run("bad fov", func(t *testing.T) {
		o := &options{scene: "cornell"}
		s, err := o.loadScene()
		if err != nil {
			t.Fatal(err)
		}
		for _, fov := range []float64{0, -10, 180} {
			o.fov = fov
			if _, err := o.camera(s); err == nil {
				t.Errorf("fov %g: expected error", fov)
			}
		}
	})
}

func TestHUDRender(t *testing.T) {
	h := NewHUD("cornell")

	tests := []struct {
		name    string
		view    ViewState
		want    []string
		notWant []string
	}{
		{
			name:    "hidden",
			view:    ViewState{},
			notWant: []string{"cornell", "FPS"},
		},
		{
			name: "unbaked",
			view: ViewState{ShowHUD: true, Frame: 7},
			want: []string{"cornell", "FPS", "unbaked", "frame 7"},
		},
		{
			name:    "baking with hud off",
			view:    ViewState{Bake: BakeStatus{Baking: true}},
			want:    []string{"baking"},
			notWant: []string{"cornell"},
		},
		{
			name: "toggles",
			view: ViewState{ShowHUD: true, ShowPatches: true},
			want: []string{"[✓] patches", "[ ] light"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h.Render(&buf, 80, 24, &tt.view)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%q", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%q", w, out)
				}
			}
		})
	}
}

func TestRotationSettles(t *testing.T) {
	r := NewRotationState(30)
	r.ApplyImpulse(0.1, -0.2)

	var pitch, yaw float64
	for range 300 {
		r.Update()
		p, y := r.Take()
		pitch += p
		yaw += y
	}
	if pitch <= 0 || yaw >= 0 {
		t.Errorf("motion = (%v, %v), want positive pitch and negative yaw", pitch, yaw)
	}
	if v := r.Pitch.Velocity; v > 1e-3 || v < -1e-3 {
		t.Errorf("pitch velocity = %v, want ~0", v)
	}
	if p, y := r.Take(); p != 0 || y != 0 {
		t.Errorf("Take after Take = (%v, %v), want zero", p, y)
	}
}
