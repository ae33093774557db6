package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/marcher/pkg/radiosity"
	"github.com/taigrr/marcher/pkg/render"
)

func newRenderCmd(opts *options) *cobra.Command {
	var (
		out         string
		width       int
		height      int
		supersample bool
		raw         string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Bake and render one frame to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid size %dx%d", width, height)
			}
			log := opts.logger(cmd.ErrOrStderr())
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			if _, err := radiosity.Bake(cmd.Context(), s, opts.bakeOptions(log)); err != nil {
				return fmt.Errorf("bake: %w", err)
			}

			cam, err := opts.camera(s)
			if err != nil {
				return err
			}
			ro := opts.renderOptions()
			ro.Supersample = supersample
			r := render.NewRenderer(s, ro)
			fb := render.NewFramebuffer(width, height)

			start := time.Now()
			if err := r.RenderFrame(cmd.Context(), cam, fb, render.Frame{}); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			log.Info("rendered", "scene", s.Name, "width", width, "height", height, "took", time.Since(start))

			if raw != "" {
				format, err := render.ParsePixelFormat(raw)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, fb.Bytes(format), 0o644); err != nil {
					return fmt.Errorf("write pixels: %w", err)
				}
			} else if err := fb.SavePNG(out); err != nil {
				return err
			}
			log.Info("wrote", "path", out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "marcher.png", "output file")
	flags.IntVar(&width, "width", 700, "image width in pixels")
	flags.IntVar(&height, "height", 700, "image height in pixels")
	flags.BoolVar(&supersample, "supersample", false, "average four rays per pixel")
	flags.StringVar(&raw, "raw", "", "write raw pixels in this byte order (rgba or bgra) instead of PNG")
	return cmd
}
