package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/backdrop/pkg/drawing"
)

// DefaultDashLength is used when a path cannot be measured. It is longer than
// any outline in a 200×100 viewBox, so the reveal still completes.
const DefaultDashLength = 1000.0

// elementPrefix keeps element ids valid when the instance id starts with a digit.
const elementPrefix = "drawing-"

// ElementID returns the DOM id of the element rendered for an instance.
func ElementID(instanceID string) string {
	return elementPrefix + instanceID
}

// Fragment renders one instance as an absolutely positioned inline <svg>.
// A non-positive length falls back to DefaultDashLength.
func Fragment(inst drawing.Instance, length float64) []byte {
	if length <= 0 {
		length = DefaultDashLength
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)

	fmt.Fprintf(canvas.Writer,
		`<svg id="%s" class="pen-stroke" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" fill="none" style="left:%.2fpx;top:%.2fpx;width:%.2fpx;height:%.2fpx;opacity:%.3f">`+"\n",
		ElementID(inst.ID),
		drawing.BaseWidth, drawing.BaseHeight, drawing.BaseWidth, drawing.BaseHeight,
		inst.X, inst.Y, inst.Width, inst.Height, inst.Opacity)

	canvas.Path(inst.Shape.Path,
		`class="animated-path"`,
		fmt.Sprintf(`stroke="%s"`, inst.Color),
		fmt.Sprintf(`style="--path-length:%.2f;animation-duration:%.3fs"`, length, inst.Duration.Seconds()))
	canvas.End()

	return buf.Bytes()
}
