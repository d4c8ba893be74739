// Package render turns drawing instances into markup.
//
// # Overview
//
// Every instance becomes a small inline <svg> element whose single path is
// revealed by a CSS "pen stroke" animation: the stroke is dashed with a dash as
// long as the path itself, and stroke-dashoffset is animated from that length
// down to zero over the instance's duration. The path length is passed in by
// the caller, measured from geometry by [svgpath.Length].
//
// This package provides:
//
//   - [Fragment]: the element for one live instance, inserted into the container
//   - [Stylesheet]: container positioning and the stroke-reveal keyframes
//   - [Page]: a host HTML page that streams fragments over a WebSocket
//   - [Snapshot]: a standalone looping SVG of a batch of instances
//   - [ToPDF] and [ToPNG]: conversions of a static snapshot via rsvg-convert
//
// SVG output is written with github.com/ajstarks/svgo.
//
// [svgpath.Length]: github.com/matzehuels/backdrop/pkg/svgpath.Length
package render
