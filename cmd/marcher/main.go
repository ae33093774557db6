// marcher - SDF ray marcher with baked radiosity lightmaps.
//
// Subcommands:
//
//	view    - Interactive terminal viewer
//	render  - Render one frame to a PNG (or raw pixel) file
//	bake    - Bake lightmaps, report stats, optionally export the patch cloud
//
// Viewer controls:
//
//	Mouse drag  - Look around (yaw/pitch)
//	Scroll      - Move forward/back
//	W/A/S/D     - Move
//	Q/E         - Move down/up
//	Arrows      - Look around
//	B           - Re-bake lightmaps
//	P           - Toggle lightmap patch overlay
//	L           - Toggle light animation
//	R           - Reset camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/marcher/pkg/radiosity"
	"github.com/taigrr/marcher/pkg/render"
	"github.com/taigrr/marcher/pkg/scene"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every subcommand.
type options struct {
	scene   string
	texture string
	bounces int
	workers int
	fov     float64
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "marcher",
		Short: "SDF ray marcher with baked radiosity lightmaps",
		Long: "marcher renders implicit-surface scenes by sphere tracing, with Phong\n" +
			"shading, soft shadows, reflections and a multi-bounce lightmap bake.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.scene, "scene", "cornell", fmt.Sprintf("built-in scene %v", scene.Names()))
	flags.StringVar(&opts.texture, "texture", "", "image (PNG/JPEG) to use on the floor")
	flags.IntVar(&opts.bounces, "bounces", radiosity.DefaultBounces, "indirect bounces to bake")
	flags.IntVar(&opts.workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	flags.Float64Var(&opts.fov, "fov", 90, "vertical field of view in degrees")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log bake phases")

	root.AddCommand(
		newViewCmd(opts),
		newRenderCmd(opts),
		newBakeCmd(opts),
	)
	return root
}

// logger returns a text logger on w at Info, or Debug with --verbose.
func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadScene builds the selected scene and applies --texture.
func (o *options) loadScene() (*scene.Scene, error) {
	s, err := scene.ByName(o.scene)
	if err != nil {
		return nil, err
	}
	if o.texture == "" {
		return s, nil
	}
	tex, err := scene.LoadTexture(o.texture)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	tex.Scale = 0.5
	return s.WithFloorTexture(tex), nil
}

func (o *options) bakeOptions(log *slog.Logger) radiosity.Options {
	return radiosity.Options{
		Bounces: o.bounces,
		Workers: o.workers,
		Logger:  log,
	}
}

func (o *options) renderOptions() render.Options {
	return render.Options{Workers: o.workers}
}

// camera places a camera at the scene's suggested viewpoint with --fov.
func (o *options) camera(s *scene.Scene) (*render.Camera, error) {
	if o.fov <= 0 || o.fov >= 180 {
		return nil, fmt.Errorf("invalid fov %g (want 0 < fov < 180)", o.fov)
	}
	cam := render.NewCamera()
	cam.SetFOV(o.fov * math.Pi / 180)
	cam.SetPosition(s.Eye)
	cam.LookAt(s.Target)
	return cam, nil
}
