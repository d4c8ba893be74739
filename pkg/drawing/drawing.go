// Package drawing defines a single decorative drawing and how its appearance
// is sampled.
//
// [Sample] is a pure function of its random source, configuration, shape
// library and viewport size. The spawner adds identity and timing; everything
// visual is decided here, so the boundary properties can be tested with a
// seeded source and no timers.
package drawing

import (
	"time"

	"github.com/matzehuels/backdrop/pkg/config"
	"github.com/matzehuels/backdrop/pkg/shapes"
)

// Fixed appearance policy.
const (
	// BaseWidth and BaseHeight are the unscaled footprint, matching the 200×100 viewBox.
	BaseWidth  = 200.0
	BaseHeight = 100.0

	// MinOpacity plus up to OpacitySpread gives the [0.1, 0.25] opacity range.
	MinOpacity    = 0.1
	OpacitySpread = 0.15
)

// Rand is the randomness the sampler needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Instance is one on-screen drawing. It is never mutated after creation.
type Instance struct {
	ID        string
	Shape     shapes.Shape
	Color     string
	Scale     float64 // size factor, (size range)/100
	X, Y      float64 // top-left position in viewport pixels
	Width     float64 // BaseWidth * Scale
	Height    float64 // BaseHeight * Scale
	Duration  time.Duration
	Opacity   float64
	CreatedAt time.Time
}

// ExpiresAt returns the time the instance is due for removal.
func (i Instance) ExpiresAt() time.Time {
	return i.CreatedAt.Add(i.Duration)
}

// Remaining returns the lifetime left at now, never negative.
func (i Instance) Remaining(now time.Time) time.Duration {
	return max(0, i.ExpiresAt().Sub(now))
}

// Progress returns how far the stroke reveal has advanced at now, in [0, 1].
func (i Instance) Progress(now time.Time) float64 {
	if i.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(i.CreatedAt)) / float64(i.Duration)
	return max(0, min(p, 1))
}

// Sample draws a new instance. The draws happen in a fixed order (shape,
// color, size, x, y, duration, opacity) so a seeded source reproduces the same
// sequence. ID and CreatedAt are left for the caller.
//
// Position ranges that would be negative because the footprint is larger than
// the viewport collapse to 0 instead of failing.
func Sample(rng Rand, cfg config.Config, lib shapes.Library, viewportW, viewportH float64) Instance {
	shape := lib[rng.IntN(len(lib))]
	color := cfg.Colors[rng.IntN(len(cfg.Colors))]
	scale := uniform(rng, cfg.MinSize, cfg.MaxSize) / config.SizeBasis

	w, h := BaseWidth*scale, BaseHeight*scale
	x := rng.Float64() * max(0, viewportW-w)
	y := rng.Float64() * max(0, viewportH-h)

	seconds := uniform(rng, cfg.MinDuration, cfg.MaxDuration)
	opacity := MinOpacity + rng.Float64()*OpacitySpread

	return Instance{
		Shape:    shape,
		Color:    color,
		Scale:    scale,
		X:        x,
		Y:        y,
		Width:    w,
		Height:   h,
		Duration: time.Duration(seconds * float64(time.Second)),
		Opacity:  opacity,
	}
}

func uniform(rng Rand, lo, hi float64) float64 {
	return rng.Float64()*(hi-lo) + lo
}
