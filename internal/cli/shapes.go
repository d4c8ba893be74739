package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/backdrop/pkg/shapes"
	"github.com/matzehuels/backdrop/pkg/svgpath"
)

// shapeRow is one line of the shapes listing.
type shapeRow struct {
	Name     string  `json:"name"`
	Segments int     `json:"segments"`
	Subpaths int     `json:"subpaths"`
	Length   float64 `json:"length"`
	Path     string  `json:"path"`
}

// shapesCommand lists the shape library with measured outline lengths.
func (c *CLI) shapesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the shape library with measured path lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			rows, err := shapeRows(cfg.Library())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%d shapes", len(rows))))
			fmt.Fprintln(out, shapesTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func shapeRows(lib shapes.Library) ([]shapeRow, error) {
	rows := make([]shapeRow, 0, len(lib))
	for _, s := range lib {
		p, err := svgpath.Parse(s.Path)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", s.Name, err)
		}
		rows = append(rows, shapeRow{
			Name:     s.Name,
			Segments: len(p),
			Subpaths: p.Subpaths(),
			Length:   p.Length(),
			Path:     s.Path,
		})
	}
	return rows, nil
}

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

func shapesTable(rows []shapeRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "NAME", "SEGMENTS", "SUBPATHS", "LENGTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 4 {
				return styleCell.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return styleCell
		})

	for i, r := range rows {
		t.Row(
			strconv.Itoa(i+1),
			r.Name,
			strconv.Itoa(r.Segments),
			strconv.Itoa(r.Subpaths),
			strconv.FormatFloat(r.Length, 'f', 2, 64),
		)
	}
	return t.Render()
}
