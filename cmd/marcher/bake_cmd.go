package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taigrr/marcher/pkg/radiosity"
)

func newBakeCmd(opts *options) *cobra.Command {
	var glb string
	cmd := &cobra.Command{
		Use:   "bake",
		Short: "Bake lightmaps and report statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			stats, err := radiosity.Bake(cmd.Context(), s, opts.bakeOptions(log))
			if err != nil {
				return fmt.Errorf("bake: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s: %d objects, %d patches (%d lit), %d transfer links, %d bounces, energy %.4f in %s\n",
				s.Name, stats.Objects, stats.Patches, stats.LitPatches, stats.Links,
				stats.Bounces, stats.Energy, stats.Duration.Round(time.Millisecond))

			if glb == "" {
				return nil
			}
			cloud := radiosity.NewCloud(s)
			if err := radiosity.ExportCloud(glb, cloud, cloud.Gather(s)); err != nil {
				return err
			}
			log.Info("exported patch cloud", "path", glb, "points", cloud.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&glb, "glb", "", "export the baked patch cloud as a binary glTF point cloud")
	return cmd
}
