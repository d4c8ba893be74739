package svgpath

import (
	"math"
	"testing"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
)

const tolerance = 1e-6

func TestLength(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want float64
	}{
		{"rectangle", "M 50 20 L 150 20 L 150 80 L 50 80 Z", 320},
		{"minus sign", "M 70 50 L 130 50", 60},
		{"plus sign", "M 100 20 L 100 80 M 70 50 L 130 50", 120},
		{"arrow", "M 30 50 L 170 50 M 160 40 L 170 50 L 160 60", 140 + 2*math.Sqrt(200)},
		{"horizontal and vertical", "M0 0 H10 V10", 20},
		{"relative closed triangle", "m 10 10 l 10 0 l 0 10 z", 20 + math.Sqrt(200)},
		{"relative horizontal", "M 5 5 h 10 v -5", 15},
		{"implicit lineto after moveto", "M 0 0 10 0 10 10", 20},
		{"compact separators", "M0,0L3,4", 5},
		{"straight quadratic", "M 0 0 Q 50 0 100 0", 100},
		{"straight cubic", "M 0 0 C 10 0 20 0 30 0", 30},
		{"semicircle", "M 0 0 A 50 50 0 0 1 100 0", 50 * math.Pi},
		{"semicircle counter-clockwise", "M 0 0 A 50 50 0 0 0 100 0", 50 * math.Pi},
		{"rotated semicircle", "M 0 0 A 50 50 45 0 1 100 0", 50 * math.Pi},
		{"undersized radius is scaled up", "M 0 0 A 10 10 0 0 1 100 0", 50 * math.Pi},
		{"zero radius arc is a line", "M 0 0 A 0 20 0 0 1 30 40", 50},
		{"degenerate arc", "M 10 10 A 5 5 0 0 1 10 10", 0},
		{"exponent numbers", "M 0 0 L 1e2 0", 100},
		{"moveto only", "M 10 10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Length(tt.d)
			if err != nil {
				t.Fatalf("Length(%q) error: %v", tt.d, err)
			}
			if math.Abs(got-tt.want) > tolerance*math.Max(1, tt.want) {
				t.Errorf("Length(%q) = %.6f, want %.6f", tt.d, got, tt.want)
			}
		})
	}
}

func TestLengthCurves(t *testing.T) {
	tests := []struct {
		name     string
		d        string
		min, max float64
	}{
		// Two near-full arcs of radius 50.
		{"circle", "M 100 50 A 50 50 0 1 0 100 51 A 50 50 0 1 0 100 50", 620, 629},
		// Each hump is longer than its 20-unit chord and shorter than the control polygon.
		{"wavy line", "M 20 50 Q 40 30, 60 50 Q 80 70, 100 50 Q 120 30, 140 50 Q 160 70, 180 50", 160, 8 * math.Sqrt(800)},
		{"heart", "M 100 60 C 100 40, 80 40, 80 60 C 80 80, 100 100, 100 100 C 100 100, 120 80, 120 60 C 120 40, 100 40, 100 60", 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Length(tt.d)
			if err != nil {
				t.Fatalf("Length(%q) error: %v", tt.d, err)
			}
			if got < tt.min || got > tt.max {
				t.Errorf("Length(%q) = %.3f, want within [%.1f, %.1f]", tt.d, got, tt.min, tt.max)
			}
		})
	}
}

func TestSmoothCommandsReflectControls(t *testing.T) {
	// S and T reflect the previous control point, so these are equal to their
	// fully spelled-out counterparts.
	pairs := []struct {
		name           string
		short, longer string
	}{
		{"cubic", "M 0 0 C 10 20 30 20 40 0 S 70 -20 80 0", "M 0 0 C 10 20 30 20 40 0 C 50 -20 70 -20 80 0"},
		{"quadratic", "M 0 0 Q 20 20 40 0 T 80 0", "M 0 0 Q 20 20 40 0 Q 60 -20 80 0"},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Length(tt.short)
			if err != nil {
				t.Fatal(err)
			}
			b, err := Length(tt.longer)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(a-b) > tolerance {
				t.Errorf("smooth length %.6f != explicit length %.6f", a, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing moveto", "L 10 10"},
		{"missing argument", "M 10"},
		{"unknown command", "M 0 0 X 1 1"},
		{"bad arc flag", "M 0 0 A 5 5 0 2 1 10 10"},
		{"numbers after closepath", "M 0 0 L 1 1 Z 5 5"},
		{"lone sign", "M - 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.d)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.d)
			}
			if !berrors.Is(err, berrors.ErrCodeInvalidPath) {
				t.Errorf("Parse(%q) code = %v, want %v", tt.d, berrors.GetCode(err), berrors.ErrCodeInvalidPath)
			}
		})
	}
}

func TestParseSegments(t *testing.T) {
	p, err := Parse("M 30 50 L 170 50 M 160 40 L 170 50 L 160 60")
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 5 {
		t.Fatalf("len(Parse()) = %d, want 5", len(p))
	}
	if p.Subpaths() != 2 {
		t.Errorf("Subpaths() = %d, want 2", p.Subpaths())
	}
	if p[2].Kind != MoveTo || p[2].To != (Point{160, 40}) {
		t.Errorf("third segment = %+v, want moveto (160,40)", p[2])
	}
	if p[4].From != (Point{170, 50}) {
		t.Errorf("last segment starts at %+v, want (170,50)", p[4].From)
	}
}

func TestPackedArcFlags(t *testing.T) {
	a, err := Length("M 0 0 A 50 50 0 0 1 100 0")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Length("M0,0A50,50,0,01100,0")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a-b) > tolerance {
		t.Errorf("packed flags length %.6f != spaced length %.6f", b, a)
	}
}
