package radiosity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/taigrr/marcher/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// DefaultBounces is the number of indirect bounces a default bake runs.
const DefaultBounces = 4

// Options configures a bake.
type Options struct {
	// Bounces is the number of indirect bounces after the direct pass.
	// Zero bakes direct light only.
	Bounces int
	// Workers bounds concurrent patch work. 0 means runtime.NumCPU().
	Workers int
	// Logger receives phase timings at Debug and a summary at Info.
	// nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the options of a standard bake.
func DefaultOptions() Options {
	return Options{Bounces: DefaultBounces}
}

// Stats summarises a finished bake.
type Stats struct {
	Objects    int           // lightmapped objects
	Patches    int           // lightmap cells sampled
	LitPatches int           // patches the light reaches directly
	Links      int           // non-zero transfer entries
	Bounces    int           // indirect bounces run
	Duration   time.Duration // wall time
	Energy     float64       // sum of every channel of every committed cell
}

// Bake fills the lightmap of every lightmapped object in s with direct light
// plus opts.Bounces bounces of diffuse interreflection.
//
// The scene's objects are only written once the bake has finished; a
// cancelled bake leaves them as they were. Nothing may read s's lightmaps
// while Bake runs.
func Bake(ctx context.Context, s *scene.Scene, opts Options) (Stats, error) {
	if opts.Bounces < 0 {
		return Stats{}, fmt.Errorf("negative bounce count %d", opts.Bounces)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	cloud := NewCloud(s)
	stats := Stats{
		Objects: len(s.LightmappedIndexes()),
		Patches: cloud.Len(),
		Bounces: opts.Bounces,
	}
	log.Debug("point cloud", "objects", stats.Objects, "patches", stats.Patches)

	phase := time.Now()
	emit, err := directPass(ctx, s, cloud, opts.Workers)
	if err != nil {
		return Stats{}, fmt.Errorf("direct pass: %w", err)
	}
	for _, c := range emit {
		if c != (scene.Colour{}) {
			stats.LitPatches++
		}
	}
	log.Debug("direct pass", "lit", stats.LitPatches, "took", time.Since(phase))

	accum := make([]scene.Colour, len(emit))
	copy(accum, emit)

	if opts.Bounces > 0 {
		phase = time.Now()
		t, err := buildTransfer(ctx, s, cloud, opts.Workers)
		if err != nil {
			return Stats{}, fmt.Errorf("transfer matrix: %w", err)
		}
		stats.Links = t.links()
		log.Debug("transfer matrix", "links", stats.Links, "took", time.Since(phase))

		cur, next := emit, make([]scene.Colour, len(emit))
		for b := range opts.Bounces {
			phase = time.Now()
			err := forEach(ctx, opts.Workers, cloud.Len(), func(r int) {
				incident := t.gather(r, cur)
				next[r] = incident.Scale(1 / math.Pi).Mul(cloud.Patches[r].Albedo)
				accum[r] = accum[r].Add(next[r])
			})
			if err != nil {
				return Stats{}, fmt.Errorf("bounce %d: %w", b+1, err)
			}
			log.Debug("bounce", "n", b+1, "energy", energy(next), "took", time.Since(phase))
			cur, next = next, cur
		}
	}

	commit(s, cloud, accum)

	stats.Energy = energy(accum)
	stats.Duration = time.Since(start)
	log.Info("bake complete",
		"objects", stats.Objects,
		"patches", stats.Patches,
		"lit", stats.LitPatches,
		"bounces", stats.Bounces,
		"energy", stats.Energy,
		"took", stats.Duration,
	)
	return stats, nil
}

// commit resets every object's lightmap and writes the baked values to the
// lightmapped ones.
func commit(s *scene.Scene, c *Cloud, values []scene.Colour) {
	maps := c.Lightmaps(values)
	for i := range s.Objects {
		s.Objects[i].ClearLightmap()
		if lm, ok := maps[i]; ok {
			s.Objects[i].SetLightmap(lm)
		}
	}
}

func energy(values []scene.Colour) float64 {
	var e float64
	for _, c := range values {
		e += c.X + c.Y + c.Z
	}
	return e
}

// forEach runs fn(0..n-1) on at most workers goroutines and waits for all of
// them. Cancelling ctx stops scheduling new indexes.
func forEach(ctx context.Context, workers, n int, fn func(i int)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
