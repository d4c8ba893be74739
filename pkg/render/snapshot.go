package render

import (
	"bytes"
	"fmt"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/backdrop/pkg/drawing"
)

// Item pairs an instance with its measured path length.
type Item struct {
	Instance drawing.Instance
	Length   float64
}

type SnapshotOption func(*snapshotRenderer)

type snapshotRenderer struct {
	static     bool
	stagger    time.Duration
	background string
}

// WithStatic renders every path fully drawn, without animation. Use it for
// raster and PDF output, where the first animation frame would be blank.
func WithStatic() SnapshotOption { return func(r *snapshotRenderer) { r.static = true } }

// WithStagger sets the animation delay between consecutive items.
func WithStagger(d time.Duration) SnapshotOption {
	return func(r *snapshotRenderer) { r.stagger = d }
}

// WithBackground fills the canvas with a solid color.
func WithBackground(color string) SnapshotOption {
	return func(r *snapshotRenderer) { r.background = color }
}

// Snapshot renders items into a standalone SVG of the given viewport size.
// Animated output loops each stroke reveal and staggers the items one second
// apart by default, like the initial fill of a live page.
func Snapshot(items []Item, width, height int, opts ...SnapshotOption) []byte {
	r := snapshotRenderer{stagger: time.Second}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(width, height, 0, 0, width, height)

	if r.background != "" {
		canvas.Rect(0, 0, width, height, fmt.Sprintf(`fill="%s"`, r.background))
	}
	if !r.static {
		canvas.Style("text/css", strokeRevealCSS, loopCSS)
	}

	for i, it := range items {
		inst := it.Instance
		length := it.Length
		if length <= 0 {
			length = DefaultDashLength
		}

		canvas.Group(
			fmt.Sprintf(`transform="translate(%.2f,%.2f) scale(%.4f)"`, inst.X, inst.Y, inst.Scale),
			fmt.Sprintf(`opacity="%.3f"`, inst.Opacity))

		attrs := []string{`fill="none"`, fmt.Sprintf(`stroke="%s"`, inst.Color)}
		if r.static {
			attrs = append(attrs, `stroke-width="2"`, `stroke-linecap="round"`, `stroke-linejoin="round"`)
		} else {
			delay := time.Duration(i) * r.stagger
			attrs = append(attrs,
				`class="animated-path looping"`,
				fmt.Sprintf(`style="--path-length:%.2f;animation-duration:%.3fs;animation-delay:%.3fs"`,
					length, inst.Duration.Seconds(), delay.Seconds()))
		}
		canvas.Path(inst.Shape.Path, attrs...)
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}
