package render

import "fmt"

const strokeRevealCSS = `.animated-path {
  stroke-width: 2;
  stroke-linecap: round;
  stroke-linejoin: round;
  stroke-dasharray: var(--path-length);
  stroke-dashoffset: var(--path-length);
  animation-name: pen-stroke;
  animation-timing-function: ease-in-out;
  animation-fill-mode: forwards;
}
@keyframes pen-stroke {
  to { stroke-dashoffset: 0; }
}`

const loopCSS = `.looping { animation-iteration-count: infinite; }`

// Stylesheet returns the CSS for the fixed background container and the
// stroke-reveal animation.
func Stylesheet(containerID string) string {
	return fmt.Sprintf(`#%[1]s {
  position: fixed;
  inset: 0;
  overflow: hidden;
  pointer-events: none;
  z-index: -1;
}
#%[1]s > svg.pen-stroke {
  position: absolute;
  overflow: visible;
}
%[2]s
`, containerID, strokeRevealCSS)
}
