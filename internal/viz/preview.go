// Package viz renders basin maps in the terminal: a downsampled color
// preview and a live progress view for long renders.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/basinmap/internal/basin"
	"github.com/san-kum/basinmap/internal/field"
)

// Preview downsamples the map to at most cols x rows character cells and
// colors each with the dominant pixel underneath. Terminal cells are roughly
// twice as tall as wide, so one output row covers two sample rows.
func Preview(m *basin.Map, f *field.Field, cols, rows int) string {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols > m.Size {
		cols = m.Size
	}
	if rows > m.Size/2 {
		rows = m.Size / 2
	}
	if rows < 1 {
		rows = 1
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		i := r * (m.Size - 1) / maxInt(rows-1, 1)
		for c := 0; c < cols; c++ {
			j := c * (m.Size - 1) / maxInt(cols-1, 1)
			cell := i*m.Size + j
			px := m.Pixels[3*cell : 3*cell+3]
			color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", px[0], px[1], px[2]))
			sb.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend lists each attractor with a swatch in its display color.
func Legend(f *field.Field) string {
	var sb strings.Builder
	for i := range f.Attractors {
		a := &f.Attractors[i]
		color := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x",
			byte(255*a.Color[0]), byte(255*a.Color[1]), byte(255*a.Color[2])))
		swatch := lipgloss.NewStyle().Foreground(color).Render("██")
		sb.WriteString(fmt.Sprintf("%s attractor %d  k=%.3f  (%.3f, %.3f)\n",
			swatch, i, a.K, a.Pos.X, a.Pos.Y))
	}
	sb.WriteString("·· escaped → white\n")
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
