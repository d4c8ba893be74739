package svgpath

import (
	"strconv"

	berrors "github.com/matzehuels/backdrop/pkg/errors"
)

// Kind identifies the primitive a Segment describes.
type Kind int

const (
	MoveTo Kind = iota
	LineTo
	QuadTo
	CubicTo
	ArcTo
	Close
)

// Point is a position in user units.
type Point struct {
	X, Y float64
}

// Segment is one absolute path primitive. Relative and shorthand commands are
// resolved during parsing, so H/V become LineTo, S becomes CubicTo and T becomes
// QuadTo.
type Segment struct {
	Kind     Kind
	From, To Point
	C1, C2   Point // control points (QuadTo uses C1 only)

	RX, RY   float64 // arc radii
	Rotation float64 // arc x-axis rotation in degrees
	LargeArc bool
	Sweep    bool
}

// Path is a parsed sequence of absolute segments.
type Path []Segment

// argCount is the number of numeric arguments per command group.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// Parse converts SVG path data into absolute segments.
// It returns an INVALID_PATH error for empty or malformed data.
func Parse(d string) (Path, error) {
	sc := &scanner{s: d}
	sc.skipSeparators()
	if sc.eof() {
		return nil, berrors.New(berrors.ErrCodeInvalidPath, "empty path data")
	}

	var (
		path      Path
		cur       Point
		start     Point
		lastCtrl  Point
		prevUpper byte
	)

	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}

		c := sc.peek()
		if !isCommand(c) {
			return nil, berrors.New(berrors.ErrCodeInvalidPath, "unexpected %q at offset %d", c, sc.i)
		}
		sc.i++

		upper := toUpper(c)
		relative := c != upper
		if len(path) == 0 && upper != 'M' {
			return nil, berrors.New(berrors.ErrCodeInvalidPath, "path must begin with a moveto, got %q", c)
		}

		if upper == 'Z' {
			path = append(path, Segment{Kind: Close, From: cur, To: start})
			cur = start
			lastCtrl = cur
			prevUpper = 'Z'
			continue
		}

		first := true
		for first || sc.startsNumber() {
			args, err := sc.args(upper)
			if err != nil {
				return nil, err
			}

			var base Point
			if relative {
				base = cur
			}

			seg := Segment{From: cur}
			switch upper {
			case 'M':
				p := Point{base.X + args[0], base.Y + args[1]}
				if first {
					seg.Kind = MoveTo
					start = p
				} else {
					seg.Kind = LineTo
				}
				seg.To = p
			case 'L':
				seg.Kind = LineTo
				seg.To = Point{base.X + args[0], base.Y + args[1]}
			case 'H':
				seg.Kind = LineTo
				seg.To = Point{base.X + args[0], cur.Y}
			case 'V':
				seg.Kind = LineTo
				seg.To = Point{cur.X, base.Y + args[0]}
			case 'C':
				seg.Kind = CubicTo
				seg.C1 = Point{base.X + args[0], base.Y + args[1]}
				seg.C2 = Point{base.X + args[2], base.Y + args[3]}
				seg.To = Point{base.X + args[4], base.Y + args[5]}
			case 'S':
				seg.Kind = CubicTo
				seg.C1 = cur
				if prevUpper == 'C' || prevUpper == 'S' {
					seg.C1 = reflect(lastCtrl, cur)
				}
				seg.C2 = Point{base.X + args[0], base.Y + args[1]}
				seg.To = Point{base.X + args[2], base.Y + args[3]}
			case 'Q':
				seg.Kind = QuadTo
				seg.C1 = Point{base.X + args[0], base.Y + args[1]}
				seg.To = Point{base.X + args[2], base.Y + args[3]}
			case 'T':
				seg.Kind = QuadTo
				seg.C1 = cur
				if prevUpper == 'Q' || prevUpper == 'T' {
					seg.C1 = reflect(lastCtrl, cur)
				}
				seg.To = Point{base.X + args[0], base.Y + args[1]}
			case 'A':
				seg.Kind = ArcTo
				seg.RX, seg.RY, seg.Rotation = args[0], args[1], args[2]
				seg.LargeArc, seg.Sweep = args[3] != 0, args[4] != 0
				seg.To = Point{base.X + args[5], base.Y + args[6]}
			}

			path = append(path, seg)
			switch seg.Kind {
			case CubicTo:
				lastCtrl = seg.C2
			case QuadTo:
				lastCtrl = seg.C1
			default:
				lastCtrl = seg.To
			}
			cur = seg.To
			prevUpper = upper
			first = false
		}
	}

	return path, nil
}

func reflect(p, about Point) Point {
	return Point{2*about.X - p.X, 2*about.Y - p.Y}
}

func isCommand(c byte) bool {
	_, ok := argCount[toUpper(c)]
	return ok
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// scanner walks path data byte by byte.
type scanner struct {
	s string
	i int
}

func (sc *scanner) eof() bool  { return sc.i >= len(sc.s) }
func (sc *scanner) peek() byte { return sc.s[sc.i] }

func (sc *scanner) skipSeparators() {
	for !sc.eof() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) startsNumber() bool {
	sc.skipSeparators()
	if sc.eof() {
		return false
	}
	c := sc.peek()
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

// args reads one argument group for an upper-case command.
// Arc flags are single characters and may be packed without separators.
func (sc *scanner) args(cmd byte) ([]float64, error) {
	n := argCount[cmd]
	out := make([]float64, n)
	for k := range n {
		sc.skipSeparators()
		if cmd == 'A' && (k == 3 || k == 4) {
			f, err := sc.flag()
			if err != nil {
				return nil, err
			}
			out[k] = f
			continue
		}
		v, err := sc.number()
		if err != nil {
			return nil, berrors.Wrap(berrors.ErrCodeInvalidPath, err, "command %c expects %d arguments", cmd, n)
		}
		out[k] = v
	}
	return out, nil
}

func (sc *scanner) flag() (float64, error) {
	if sc.eof() {
		return 0, berrors.New(berrors.ErrCodeInvalidPath, "missing arc flag at offset %d", sc.i)
	}
	switch sc.peek() {
	case '0':
		sc.i++
		return 0, nil
	case '1':
		sc.i++
		return 1, nil
	}
	return 0, berrors.New(berrors.ErrCodeInvalidPath, "invalid arc flag %q at offset %d", sc.peek(), sc.i)
}

// number scans sign? digits? (. digits?)? (e sign? digits)? with at least one mantissa digit.
func (sc *scanner) number() (float64, error) {
	begin := sc.i
	if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.i++
	}
	digits := sc.digits()
	if !sc.eof() && sc.peek() == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.i = begin
		return 0, berrors.New(berrors.ErrCodeInvalidPath, "expected number at offset %d", begin)
	}
	if !sc.eof() && (sc.peek() == 'e' || sc.peek() == 'E') {
		mark := sc.i
		sc.i++
		if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			sc.i = mark
		}
	}
	v, err := strconv.ParseFloat(sc.s[begin:sc.i], 64)
	if err != nil {
		return 0, berrors.Wrap(berrors.ErrCodeInvalidPath, err, "parse number %q", sc.s[begin:sc.i])
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for !sc.eof() && isDigit(sc.peek()) {
		sc.i++
		n++
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
