package backdrop

import (
	"time"

	"github.com/matzehuels/backdrop/pkg/drawing"
)

// Element is what a spawner attaches to a container.
type Element struct {
	ID       string // instance ID
	Instance drawing.Instance
	Length   float64 // stroke length used for the reveal
	Markup   []byte  // rendered SVG fragment
}

// Container holds the drawings shown on a surface. The spawner only appends
// its own elements and removes elements it appended.
type Container interface {
	// Append attaches an element. An error means the element was not attached.
	Append(Element) error
	// Remove detaches the element with the given ID and reports whether it was present.
	Remove(id string) bool
	// Contains reports whether the element is attached.
	Contains(id string) bool
	// Len returns the number of attached elements.
	Len() int
}

// Surface is the display a spawner draws on.
type Surface interface {
	// Container looks up a container by its well-known identifier.
	Container(id string) (Container, bool)
	// Viewport returns the current display size in pixels.
	Viewport() (width, height float64)
}

// Rand is the random source used for sampling. *math/rand/v2.Rand satisfies it.
type Rand = drawing.Rand

// Clock schedules the spawner's timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing and reports whether it was still pending.
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock { return realClock{} }
