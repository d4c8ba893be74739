// Package shapes holds the library of path descriptors the spawner draws from.
//
// A [Library] is an ordered, read-only list. Selection is by uniform random
// index, so order only matters for reproducing a seeded sequence.
package shapes

import (
	"fmt"
	"strings"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/svgpath"
)

// Shape is a named SVG path laid out in a 200×100 viewBox.
type Shape struct {
	Name string
	Path string
}

// Library is an ordered list of shapes.
type Library []Shape

var defaultLibrary = Library{
	{"rectangle", "M 50 20 L 150 20 L 150 80 L 50 80 Z"},
	{"arrow-right", "M 30 50 L 170 50 M 160 40 L 170 50 L 160 60"},
	{"circle", "M 100 50 A 50 50 0 1 0 100 51 A 50 50 0 1 0 100 50"},
	{"triangle", "M 50 80 L 100 20 L 150 80 Z"},
	{"wave", "M 20 50 Q 40 30, 60 50 Q 80 70, 100 50 Q 120 30, 140 50 Q 160 70, 180 50"},
	{"arrow-left", "M 170 50 L 30 50 M 40 40 L 30 50 L 40 60"},
	{"arrow-up", "M 100 70 L 100 30 M 90 40 L 100 30 L 110 40"},
	{"arrow-down", "M 100 30 L 100 70 M 90 60 L 100 70 L 110 60"},
	{"arrow-diagonal-up", "M 20 80 L 180 20 M 165 25 L 180 20 L 175 35"},
	{"arrow-diagonal-down", "M 20 20 L 180 80 M 165 75 L 180 80 L 175 65"},
	{"plus", "M 100 20 L 100 80 M 70 50 L 130 50"},
	{"minus", "M 70 50 L 130 50"},
	{"cross", "M 70 30 L 130 70 M 130 30 L 70 70"},
	{"pentagon", "M 100 20 L 140 45 L 125 90 L 75 90 L 60 45 Z"},
	{"hexagon", "M 70 30 L 130 30 L 150 60 L 130 90 L 70 90 L 50 60 Z"},
	{"octagon", "M 65 30 L 85 25 L 115 25 L 135 30 L 140 50 L 140 70 L 135 85 L 115 90 L 85 90 L 65 85 L 60 70 L 60 50 Z"},
	{"star", "M 100 20 L 118 60 L 160 65 L 128 95 L 140 135 L 100 110 L 60 135 L 72 95 L 40 65 L 82 60 Z"},
	{"heart", "M 100 60 C 100 40, 80 40, 80 60 C 80 80, 100 100, 100 100 C 100 100, 120 80, 120 60 C 120 40, 100 40, 100 60"},
	{"lightning", "M 90 20 L 110 20 L 100 50 L 120 50 L 90 90 L 100 60 L 90 60 Z"},
	{"cloud", "M 60 60 Q 60 40, 80 40 Q 90 20, 110 30 Q 130 20, 140 40 Q 140 60, 120 60 Q 130 80, 110 70 Q 90 80, 80 70 Q 70 80, 60 60"},
	{"speech-bubble", "M 50 30 L 150 30 L 150 70 L 130 70 L 120 90 L 110 70 L 50 70 Z"},
}

// Default returns a copy of the built-in library.
func Default() Library {
	return append(Library(nil), defaultLibrary...)
}

// FromPaths builds a library from bare path strings, naming them shape-1..n.
func FromPaths(paths []string) Library {
	lib := make(Library, len(paths))
	for i, p := range paths {
		lib[i] = Shape{Name: fmt.Sprintf("shape-%d", i+1), Path: p}
	}
	return lib
}

// Validate checks that the library is non-empty and every path parses.
// Paths are embedded in markup, so quote and angle-bracket characters are rejected.
func (l Library) Validate() error {
	if len(l) == 0 {
		return berrors.New(berrors.ErrCodeInvalidShape, "shape library cannot be empty")
	}
	for i, s := range l {
		if strings.ContainsAny(s.Path, "\"'<>&") {
			return berrors.New(berrors.ErrCodeInvalidShape, "shape %d (%s) contains markup characters", i, s.Name)
		}
		if _, err := svgpath.Parse(s.Path); err != nil {
			return berrors.Wrap(berrors.ErrCodeInvalidShape, err, "shape %d (%s)", i, s.Name)
		}
	}
	return nil
}

// Lookup returns the shape with the given name.
func (l Library) Lookup(name string) (Shape, bool) {
	for _, s := range l {
		if s.Name == name {
			return s, true
		}
	}
	return Shape{}, false
}

// Names returns the shape names in library order.
func (l Library) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.Name
	}
	return names
}
