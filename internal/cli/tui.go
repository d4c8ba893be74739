package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/backdrop/pkg/backdrop"
	"github.com/matzehuels/backdrop/pkg/drawing"
)

const watchRefresh = 100 * time.Millisecond

// revealGlyphs grow with a drawing's reveal progress.
var revealGlyphs = []string{"·", "•", "●"}

var (
	watchEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	watchFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// =============================================================================
// WatchModel - live terminal view of a spawner
// =============================================================================

type watchTickMsg time.Time

// WatchModel is the bubbletea model for the watch command. Every drawing is
// shown as one glyph at the center of its footprint, colored with its stroke
// color and growing as its reveal progresses.
type WatchModel struct {
	Spawner  *backdrop.Spawner
	Viewport [2]float64 // simulated display size in pixels
	Cols     int
	Rows     int
	Now      func() time.Time

	ctx context.Context
}

// NewWatchModel creates a watch model for sp over a width×height display.
func NewWatchModel(ctx context.Context, sp *backdrop.Spawner, width, height float64) WatchModel {
	return WatchModel{
		Spawner:  sp,
		Viewport: [2]float64{width, height},
		Cols:     80,
		Rows:     20,
		Now:      time.Now,
		ctx:      ctx,
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(watchRefresh, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	return watchTick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.Spawner.SpawnOne()
		case "p":
			if m.Spawner.Running() {
				m.Spawner.Stop()
			} else {
				_ = m.Spawner.Start(m.ctx)
			}
		}
	case tea.WindowSizeMsg:
		m.Cols = max(10, msg.Width-2)
		m.Rows = max(5, msg.Height-6)
	case watchTickMsg:
		return m, watchTick()
	}
	return m, nil
}

func (m WatchModel) View() string {
	insts := m.Spawner.Instances()
	cfg := m.Spawner.Config()

	state := "running"
	if !m.Spawner.Running() {
		state = "paused"
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("backdrop"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · ", state)))
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", len(insts), cfg.MaxElements)))
	b.WriteString(StyleDim.Render(" live"))
	b.WriteString("\n")
	b.WriteString(watchFrameStyle.Render(renderCanvas(insts, m.Now(), m.Viewport[0], m.Viewport[1], m.Cols, m.Rows)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("s spawn  p pause/resume  q quit"))
	return b.String()
}

// renderCanvas lays instances onto a cols×rows character grid.
func renderCanvas(insts []drawing.Instance, now time.Time, vw, vh float64, cols, rows int) string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = watchEmptyStyle.Render(" ")
		}
	}

	for _, inst := range insts {
		c := cell(inst.X+inst.Width/2, vw, cols)
		r := cell(inst.Y+inst.Height/2, vh, rows)
		glyph := revealGlyphs[min(len(revealGlyphs)-1, int(inst.Progress(now)*float64(len(revealGlyphs))))]
		grid[r][c] = lipgloss.NewStyle().Foreground(lipgloss.Color(inst.Color)).Render(glyph)
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// cell maps a pixel coordinate onto one of n cells.
func cell(v, extent float64, n int) int {
	if extent <= 0 {
		return 0
	}
	return max(0, min(n-1, int(v/extent*float64(n))))
}
