package backdrop

import (
	"slices"
	"sync"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
)

// MemorySurface is an in-process Surface. It backs tests, the terminal view
// and snapshot rendering.
type MemorySurface struct {
	mu         sync.RWMutex
	width      float64
	height     float64
	containers map[string]*MemoryContainer
}

// NewMemorySurface creates a surface of the given size with one empty
// container per id.
func NewMemorySurface(width, height float64, containerIDs ...string) *MemorySurface {
	s := &MemorySurface{
		width:      width,
		height:     height,
		containers: make(map[string]*MemoryContainer, len(containerIDs)),
	}
	for _, id := range containerIDs {
		s.containers[id] = NewMemoryContainer(0)
	}
	return s
}

// Container implements Surface.
func (s *MemorySurface) Container(id string) (Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Lookup returns the concrete container registered under id.
func (s *MemorySurface) Lookup(id string) (*MemoryContainer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[id]
	return c, ok
}

// Attach registers c under id, replacing any previous container.
func (s *MemorySurface) Attach(id string, c *MemoryContainer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers[id] = c
}

// Detach unregisters the container under id.
func (s *MemorySurface) Detach(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.containers, id)
}

// Viewport implements Surface.
func (s *MemorySurface) Viewport() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Resize changes the viewport. Drawings already placed keep their position.
func (s *MemorySurface) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// MemoryContainer keeps attached elements in insertion order.
type MemoryContainer struct {
	mu       sync.RWMutex
	capacity int
	children []Element
}

// NewMemoryContainer creates a container. A positive capacity makes Append
// fail with BACKPRESSURE once that many elements are attached.
func NewMemoryContainer(capacity int) *MemoryContainer {
	return &MemoryContainer{capacity: capacity}
}

// Append implements Container.
func (c *MemoryContainer) Append(e Element) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity > 0 && len(c.children) >= c.capacity {
		return berrors.New(berrors.ErrCodeBackpressure, "container full (%d elements)", c.capacity)
	}
	c.children = append(c.children, e)
	return nil
}

// Remove implements Container.
func (c *MemoryContainer) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.children = slices.Delete(c.children, i, i+1)
	return true
}

// Contains implements Container.
func (c *MemoryContainer) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index(id) >= 0
}

// Len implements Container.
func (c *MemoryContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.children)
}

// Children returns a copy of the attached elements in insertion order.
func (c *MemoryContainer) Children() []Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.children)
}

// Clear detaches everything, as if the host had torn the container down.
func (c *MemoryContainer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = nil
}

func (c *MemoryContainer) index(id string) int {
	return slices.IndexFunc(c.children, func(e Element) bool { return e.ID == id })
}
