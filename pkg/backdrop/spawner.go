package backdrop

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/backdrop/pkg/config"
	"github.com/matzehuels/backdrop/pkg/drawing"
	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/observability"
	"github.com/matzehuels/backdrop/pkg/render"
	"github.com/matzehuels/backdrop/pkg/shapes"
	"github.com/matzehuels/backdrop/pkg/svgpath"
)

// Fixed scheduling policy.
const (
	// StaggerInterval separates the spawns of the initial fill.
	StaggerInterval = time.Second

	// TopUpInterval is the period of the top-up check.
	TopUpInterval = 500 * time.Millisecond
)

// Skip reasons reported to observability hooks.
const (
	SkipContainerMissing = "container_missing"
	SkipAppendFailed     = "append_failed"
)

// Measurer returns the geometric length of an SVG path.
type Measurer func(d string) (float64, error)

// Option configures a Spawner.
type Option func(*Spawner)

// WithRand sets the random source. The default draws from math/rand/v2.
func WithRand(r Rand) Option { return func(s *Spawner) { s.rng = r } }

// WithClock sets the clock used for timestamps and timers.
func WithClock(c Clock) Option { return func(s *Spawner) { s.clock = c } }

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Spawner) { s.logger = l } }

// WithMeasurer replaces the path length measurement.
func WithMeasurer(m Measurer) Option { return func(s *Spawner) { s.measure = m } }

// WithIDs sets the instance ID generator. The default produces UUIDs.
func WithIDs(next func() string) Option { return func(s *Spawner) { s.newID = next } }

// Spawner owns the drawings it attaches and the timers that drive them.
type Spawner struct {
	cfg     config.Config
	lib     shapes.Library
	surface Surface

	rng     Rand
	clock   Clock
	logger  *log.Logger
	measure Measurer
	newID   func() string

	mu      sync.Mutex
	ctx     context.Context
	running bool
	gen     uint64
	done    chan struct{}
	stagger []Timer
	topUp   Timer
	live    []*handle
	lengths map[string]float64
}

type handle struct {
	elem      Element
	container Container
	timer     Timer
}

// New creates a spawner. The configuration is validated and copied; the
// library must be non-empty and valid.
func New(cfg config.Config, lib shapes.Library, surface Surface, opts ...Option) (*Spawner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, berrors.New(berrors.ErrCodeInvalidInput, "surface is required")
	}

	s := &Spawner{
		cfg:     cfg.Clone(),
		lib:     slices.Clone(lib),
		surface: surface,
		rng:     globalRand{},
		clock:   realClock{},
		logger:  log.Default(),
		measure: svgpath.Length,
		newID:   uuid.NewString,
		ctx:     context.Background(),
		lengths: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the spawner's configuration.
func (s *Spawner) Config() config.Config {
	return s.cfg.Clone()
}

// Start begins the staggered initial fill and the top-up check. The first
// drawing is spawned before Start returns. Cancelling ctx stops the spawner.
func (s *Spawner) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return berrors.New(berrors.ErrCodeAlreadyRunning, "spawner already running")
	}
	s.running = true
	s.gen++
	s.ctx = ctx
	s.done = make(chan struct{})
	gen := s.gen

	s.logger.Debug("starting spawner", "max", s.cfg.MaxElements, "container", s.cfg.ContainerID)

	s.fillLocked()
	for i := 1; i < s.cfg.MaxElements; i++ {
		s.stagger = append(s.stagger, s.clock.AfterFunc(time.Duration(i)*StaggerInterval, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.current(gen) {
				s.fillLocked()
			}
		}))
	}
	s.scheduleTopUpLocked(gen)

	if ctx.Done() != nil {
		go s.watch(ctx, gen, s.done)
	}
	return nil
}

func (s *Spawner) watch(ctx context.Context, gen uint64, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.current(gen) {
			s.logger.Debug("context done, stopping spawner", "err", ctx.Err())
			s.stopLocked()
		}
	case <-done:
	}
}

// Stop cancels every pending timer and detaches every drawing the spawner
// still owns. It is safe to call more than once.
func (s *Spawner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Spawner) stopLocked() {
	if s.running {
		s.running = false
		s.gen++
		close(s.done)
		for _, t := range s.stagger {
			t.Stop()
		}
		s.stagger = nil
		if s.topUp != nil {
			s.topUp.Stop()
			s.topUp = nil
		}
	}

	live := s.live
	s.live = nil
	for i, h := range live {
		h.timer.Stop()
		s.detach(h, len(live)-i-1)
	}
	if len(live) > 0 {
		s.logger.Debug("stopped spawner", "detached", len(live))
	}
}

// Running reports whether the spawner has been started and not stopped.
func (s *Spawner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Live returns the number of drawings the spawner currently owns.
func (s *Spawner) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Instances returns the live drawings in spawn order.
func (s *Spawner) Instances() []drawing.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]drawing.Instance, len(s.live))
	for i, h := range s.live {
		out[i] = h.elem.Instance
	}
	return out
}

// SpawnOne adds a single drawing regardless of the cap. Failures are logged
// and skipped.
func (s *Spawner) SpawnOne() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawnLocked()
}

// Remove detaches a drawing ahead of its scheduled removal. It reports
// whether an element was detached; unknown or already removed IDs are a no-op.
func (s *Spawner) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	h := s.live[i]
	h.timer.Stop()
	s.live = slices.Delete(s.live, i, i+1)
	return s.detach(h, len(s.live))
}

func (s *Spawner) current(gen uint64) bool {
	return s.running && s.gen == gen
}

// fillLocked spawns one drawing if the cap allows it.
func (s *Spawner) fillLocked() {
	if len(s.live) < s.cfg.MaxElements {
		s.spawnLocked()
	}
}

func (s *Spawner) scheduleTopUpLocked(gen uint64) {
	s.topUp = s.clock.AfterFunc(TopUpInterval, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.current(gen) {
			return
		}
		s.fillLocked()
		s.scheduleTopUpLocked(gen)
	})
}

func (s *Spawner) spawnLocked() {
	container, ok := s.surface.Container(s.cfg.ContainerID)
	if !ok {
		s.logger.Warn("container not found, skipping spawn", "container", s.cfg.ContainerID)
		observability.Spawner().OnSkip(s.ctx, SkipContainerMissing)
		return
	}

	vw, vh := s.surface.Viewport()
	inst := drawing.Sample(s.rng, s.cfg, s.lib, vw, vh)
	inst.ID = s.newID()
	inst.CreatedAt = s.clock.Now()

	length := s.lengthOf(inst.Shape)
	elem := Element{
		ID:       inst.ID,
		Instance: inst,
		Length:   length,
		Markup:   render.Fragment(inst, length),
	}
	if err := container.Append(elem); err != nil {
		s.logger.Warn("append failed, skipping spawn", "id", inst.ID, "err", err)
		observability.Spawner().OnSkip(s.ctx, SkipAppendFailed)
		return
	}

	id := inst.ID
	h := &handle{elem: elem, container: container}
	h.timer = s.clock.AfterFunc(inst.Duration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// The handle may already be gone after Remove or Stop.
		if i := s.indexOf(id); i >= 0 && s.live[i] == h {
			s.live = slices.Delete(s.live, i, i+1)
			s.detach(h, len(s.live))
		}
	})
	s.live = append(s.live, h)

	s.logger.Debug("spawned drawing",
		"id", inst.ID,
		"shape", inst.Shape.Name,
		"duration", inst.Duration,
		"live", len(s.live))
	observability.Spawner().OnSpawn(s.ctx, inst.Shape.Name, len(s.live))
}

// detach removes h's element from its container if it is still attached.
// OnRemove fires only for an actual detach.
func (s *Spawner) detach(h *handle, live int) bool {
	if !h.container.Contains(h.elem.ID) || !h.container.Remove(h.elem.ID) {
		s.logger.Debug("drawing already detached", "id", h.elem.ID, "live", live)
		return false
	}
	lifetime := s.clock.Now().Sub(h.elem.Instance.CreatedAt)
	s.logger.Debug("removed drawing", "id", h.elem.ID, "lifetime", lifetime, "live", live)
	observability.Spawner().OnRemove(s.ctx, h.elem.Instance.Shape.Name, lifetime, live)
	return true
}

func (s *Spawner) indexOf(id string) int {
	return slices.IndexFunc(s.live, func(h *handle) bool { return h.elem.ID == id })
}

// lengthOf measures a shape's outline once and remembers the result.
func (s *Spawner) lengthOf(shape shapes.Shape) float64 {
	if l, ok := s.lengths[shape.Path]; ok {
		return l
	}
	l, err := s.measure(shape.Path)
	if err != nil || l <= 0 {
		s.logger.Warn("could not measure path, using default dash length",
			"shape", shape.Name, "length", l, "err", err)
		observability.Spawner().OnMeasureFallback(s.ctx, shape.Name, err)
		l = render.DefaultDashLength
	}
	s.lengths[shape.Path] = l
	return l
}

// globalRand draws from the math/rand/v2 top-level source, which is safe for
// concurrent use and randomly seeded.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int { return rand.IntN(n) }
