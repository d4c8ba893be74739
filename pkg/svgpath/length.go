package svgpath

import "math"

// Gauss–Legendre 5-point nodes and weights on [-1, 1].
var (
	glNodes   = [5]float64{0, -0.5384693101056831, 0.5384693101056831, -0.9061798459386640, 0.9061798459386640}
	glWeights = [5]float64{0.5688888888888889, 0.4786286704993665, 0.4786286704993665, 0.2369268850561891, 0.2369268850561891}
)

// subdivisions is the number of equal sub-intervals each curve is split into.
const subdivisions = 16

// Length parses d and returns the total length of all its segments.
// Moveto segments contribute nothing; closepath contributes the closing line.
func Length(d string) (float64, error) {
	p, err := Parse(d)
	if err != nil {
		return 0, err
	}
	return p.Length(), nil
}

// Length returns the sum of the segment lengths.
func (p Path) Length() float64 {
	total := 0.0
	for _, s := range p {
		total += s.Length()
	}
	return total
}

// Subpaths returns the number of moveto-started subpaths.
func (p Path) Subpaths() int {
	n := 0
	for _, s := range p {
		if s.Kind == MoveTo {
			n++
		}
	}
	return n
}

// Length returns the arc length of a single segment.
func (s Segment) Length() float64 {
	switch s.Kind {
	case LineTo, Close:
		return distance(s.From, s.To)
	case QuadTo:
		return integrate(func(t float64) float64 {
			mt := 1 - t
			dx := 2*mt*(s.C1.X-s.From.X) + 2*t*(s.To.X-s.C1.X)
			dy := 2*mt*(s.C1.Y-s.From.Y) + 2*t*(s.To.Y-s.C1.Y)
			return math.Hypot(dx, dy)
		}, 0, 1)
	case CubicTo:
		return integrate(func(t float64) float64 {
			mt := 1 - t
			dx := 3*mt*mt*(s.C1.X-s.From.X) + 6*mt*t*(s.C2.X-s.C1.X) + 3*t*t*(s.To.X-s.C2.X)
			dy := 3*mt*mt*(s.C1.Y-s.From.Y) + 6*mt*t*(s.C2.Y-s.C1.Y) + 3*t*t*(s.To.Y-s.C2.Y)
			return math.Hypot(dx, dy)
		}, 0, 1)
	case ArcTo:
		return arcLength(s)
	}
	return 0
}

// arcLength converts the endpoint arc to center parameterization (SVG 1.1
// implementation notes F.6.5 and F.6.6) and integrates the ellipse speed over
// the swept angle. Rotation does not change the length, only the center.
func arcLength(s Segment) float64 {
	if s.From == s.To {
		return 0
	}
	rx, ry := math.Abs(s.RX), math.Abs(s.RY)
	if rx == 0 || ry == 0 {
		return distance(s.From, s.To)
	}

	phi := s.Rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	dx2 := (s.From.X - s.To.X) / 2
	dy2 := (s.From.Y - s.To.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	if lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry); lambda > 1 {
		scale := math.Sqrt(lambda)
		rx *= scale
		ry *= scale
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := math.Sqrt(math.Max(0, num/den))
	if s.LargeArc == s.Sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta1 := angle(1, 0, ux, uy)
	delta := angle(ux, uy, vx, vy)
	if !s.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if s.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	return math.Abs(integrate(func(theta float64) float64 {
		return math.Hypot(rx*math.Sin(theta), ry*math.Cos(theta))
	}, theta1, theta1+delta))
}

func angle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// integrate applies composite Gauss–Legendre quadrature to f over [a, b].
func integrate(f func(float64) float64, a, b float64) float64 {
	h := (b - a) / subdivisions
	sum := 0.0
	for i := range subdivisions {
		lo := a + float64(i)*h
		mid, half := lo+h/2, h/2
		for k, x := range glNodes {
			sum += glWeights[k] * f(mid+half*x)
		}
	}
	return sum * h / 2
}
