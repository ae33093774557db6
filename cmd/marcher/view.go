package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/marcher/pkg/radiosity"
	"github.com/taigrr/marcher/pkg/render"
	"github.com/taigrr/marcher/pkg/scene"
)

const (
	moveStep     = 0.25
	lookImpulse  = 0.01
	arrowImpulse = 0.02
	axisLength   = 1.0
)

func newViewCmd(opts *options) *cobra.Command {
	var (
		fps     int
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a scene in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the viewer, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.Create(logFile)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), s, opts, fps, opts.logger(logOut))
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}

type bakeResult struct {
	scene *scene.Scene
	stats radiosity.Stats
	err   error
}

func runViewer(ctx context.Context, s *scene.Scene, opts *options, fps int, log *slog.Logger) error {
	if fps <= 0 {
		return fmt.Errorf("invalid fps %d", fps)
	}
	camera, err := opts.camera(s)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-motion mouse tracking with SGR coordinates.
	fmt.Print("\x1b[?1003h\x1b[?1006h")

	cleanup := func() {
		fmt.Print("\x1b[?1006l\x1b[?1003l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	renderer := render.NewRenderer(s, opts.renderOptions())
	rotation := NewRotationState(fps)
	hud := NewHUD(s.Name)
	view := &ViewState{ShowHUD: true}

	fbWidth, fbHeight := render.TerminalSize(width, height)
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	bakes := make(chan bakeResult, 1)
	bake := func() {
		if view.Bake.Baking {
			return
		}
		view.Bake.Baking = true
		next := renderer.Scene().Clone()
		go func() {
			stats, err := radiosity.Bake(ctx, next, opts.bakeOptions(log))
			bakes <- bakeResult{scene: next, stats: stats, err: err}
		}()
	}
	bake()

	var (
		mouseDown              bool
		lastMouseX, lastMouseY int
	)
	handle := func(ev uv.Event) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			fbWidth, fbHeight = render.TerminalSize(width, height)
			fb = render.NewFramebuffer(fbWidth, fbHeight)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				cancel()
			case ev.MatchString("w"):
				camera.MoveForward(moveStep)
			case ev.MatchString("s"):
				camera.MoveForward(-moveStep)
			case ev.MatchString("a"):
				camera.MoveRight(-moveStep)
			case ev.MatchString("d"):
				camera.MoveRight(moveStep)
			case ev.MatchString("e"):
				camera.MoveUp(moveStep)
			case ev.MatchString("q"):
				camera.MoveUp(-moveStep)
			case ev.MatchString("up"):
				rotation.ApplyImpulse(arrowImpulse, 0)
			case ev.MatchString("down"):
				rotation.ApplyImpulse(-arrowImpulse, 0)
			case ev.MatchString("left"):
				rotation.ApplyImpulse(0, -arrowImpulse)
			case ev.MatchString("right"):
				rotation.ApplyImpulse(0, arrowImpulse)
			case ev.MatchString("r"):
				rotation.Reset()
				if cam, err := opts.camera(renderer.Scene()); err == nil {
					camera = cam
				}
			case ev.MatchString("b"):
				bake()
			case ev.MatchString("p"):
				view.ShowPatches = !view.ShowPatches
			case ev.MatchString("l"):
				view.AnimateLight = !view.AnimateLight
				ro := renderer.Options()
				ro.AnimateLight = view.AnimateLight
				renderer.SetOptions(ro)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				view.ShowHUD = !view.ShowHUD
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				rotation.ApplyImpulse(float64(lastMouseY-ev.Y)*lookImpulse, float64(ev.X-lastMouseX)*lookImpulse)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				camera.MoveForward(moveStep)
			case uv.MouseWheelDown:
				camera.MoveForward(-moveStep)
			}
		}
	}

	targetDuration := time.Second / time.Duration(fps)
	start := time.Now()
	events := term.Events()

	for frame := 0; ; frame++ {
		now := time.Now()

		// Drain input and finished bakes without blocking the frame.
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				handle(ev)
			case res := <-bakes:
				view.Bake = BakeStatus{Stats: res.stats, Err: res.err}
				if res.err != nil {
					log.Error("bake failed", "err", res.err)
					break
				}
				renderer.SetScene(res.scene)
			default:
				break drain
			}
		}

		rotation.Update()
		camera.Rotate(rotation.Take())

		f := render.Frame{Index: frame, Elapsed: now.Sub(start)}
		if err := renderer.RenderFrame(ctx, camera, fb, f); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("render frame %d: %w", frame, err)
		}
		if view.ShowPatches {
			overlay := render.NewOverlay(camera, fb)
			current := renderer.Scene()
			overlay.DrawPatches(current)
			overlay.DrawAxes(current.Target, axisLength)
			light := current.Light
			if view.AnimateLight {
				light = render.OrbitLight(light, f.Elapsed.Seconds())
			}
			overlay.DrawLight(light)
		}

		fb.Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		view.Frame = frame
		hud.UpdateFPS()
		hud.Render(os.Stdout, width, height, view)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
