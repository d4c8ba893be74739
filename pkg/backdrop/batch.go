package backdrop

import (
	"time"

	"github.com/matzehuels/backdrop/pkg/config"
	"github.com/matzehuels/backdrop/pkg/render"
	"github.com/matzehuels/backdrop/pkg/shapes"
)

// MaxBatch bounds the number of drawings a single batch may hold.
const MaxBatch = 500

// Batch spawns count drawings onto a throwaway surface of the given size and
// returns them in spawn order. Nothing is ever removed, so the result is a
// still frame of what a live spawner would place. A count of zero uses the
// configured cap.
func Batch(cfg config.Config, lib shapes.Library, width, height float64, count int, opts ...Option) ([]Element, error) {
	if count <= 0 {
		count = cfg.MaxElements
	}
	count = min(count, MaxBatch)

	surface := NewMemorySurface(width, height, cfg.ContainerID)
	sp, err := New(cfg, lib, surface, append(opts, WithClock(frozenClock{}))...)
	if err != nil {
		return nil, err
	}
	for range count {
		sp.SpawnOne()
	}
	c, _ := surface.Lookup(cfg.ContainerID)
	return c.Children(), nil
}

// Items converts elements into snapshot items.
func Items(elems []Element) []render.Item {
	out := make([]render.Item, len(elems))
	for i, e := range elems {
		out[i] = render.Item{Instance: e.Instance, Length: e.Length}
	}
	return out
}

// frozenClock never fires its timers.
type frozenClock struct{}

func (frozenClock) Now() time.Time { return time.Time{} }

func (frozenClock) AfterFunc(time.Duration, func()) Timer { return frozenTimer{} }

type frozenTimer struct{}

func (frozenTimer) Stop() bool { return true }
