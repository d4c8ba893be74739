// Package svgpath parses SVG path data and measures its geometric length.
//
// # Overview
//
// The stroke-reveal animation draws a path from invisible to fully visible by
// animating stroke-dashoffset from the path's total length down to zero. That
// only looks right when the dash length equals the real length of the outline,
// so the length is computed from the geometry rather than estimated from the
// bounding box.
//
// # Supported Commands
//
// All commands of the SVG 1.1 path grammar are accepted in absolute and relative
// form: M, L, H, V, C, S, Q, T, A and Z. Repeated argument groups after a command
// are treated as implicit repetitions (after M they become L).
//
// # Measurement
//
// Lines are measured exactly. Quadratic and cubic Béziers and elliptical arcs are
// integrated with 5-point Gauss–Legendre quadrature over 16 sub-intervals, which
// is exact for straight Béziers and circular arcs and well below a pixel of error
// for the decorative shapes this is used with.
//
//	n, err := svgpath.Length("M 50 20 L 150 20 L 150 80 L 50 80 Z")
//	// n == 320
package svgpath
