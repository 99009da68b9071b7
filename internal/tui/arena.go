package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The arena maps terminal cells onto the coordinate system the
// recorder works in: origin at the home marker, y axis up. Terminal
// cells are roughly twice as tall as wide, so a row step counts double
// to keep distances isotropic.

const cellAspect = 2.0

// HomeHalf is the half-extent of the square home hit region in arena
// units. It spans two cells horizontally and one row vertically.
const HomeHalf = 2.0

type arena struct {
	width  int // cells
	height int // rows
	cx     int
	cy     int
}

func newArena(width, height int) arena {
	return arena{width: width, height: height, cx: width / 2, cy: height / 2}
}

// toArena converts a terminal cell position to arena coordinates.
func (a arena) toArena(col, row int) (float64, float64) {
	return float64(col - a.cx), float64(a.cy-row) * cellAspect
}

// span returns the usable arena extents from the origin, the limiting
// factor for target distances.
func (a arena) span() (x, y float64) {
	minX := a.cx
	if a.width-1-a.cx < minX {
		minX = a.width - 1 - a.cx
	}
	minY := a.cy
	if a.height-1-a.cy < minY {
		minY = a.height - 1 - a.cy
	}
	return float64(minX), float64(minY) * cellAspect
}

var (
	homeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4D79FF"))
)

// render draws the arena grid with the home marker and, when visible,
// the target disk.
func (a arena) render(showTarget bool, tx, ty float64, radius int) string {
	r2 := float64(radius) * float64(radius)
	rows := make([]string, a.height)
	for row := 0; row < a.height; row++ {
		line := make([]byte, a.width)
		for col := 0; col < a.width; col++ {
			x, y := a.toArena(col, row)
			switch {
			case showTarget && onDisk(x, y, tx, ty, r2):
				line[col] = 'o'
			case onHomeSquare(x, y):
				line[col] = 'h'
			default:
				line[col] = ' '
			}
		}
		// Style contiguous runs so the escape sequences stay short.
		rows[row] = styleRuns(string(line))
	}
	return strings.Join(rows, "\n")
}

func onDisk(x, y, tx, ty, r2 float64) bool {
	dx := x - tx
	dy := y - ty
	return dx*dx+dy*dy <= r2
}

func onHomeSquare(x, y float64) bool {
	return x >= -HomeHalf && x <= HomeHalf && y >= -HomeHalf && y <= HomeHalf
}

func styleRuns(line string) string {
	var b strings.Builder
	flush := func(kind byte, run string) {
		if run == "" {
			return
		}
		switch kind {
		case 'h':
			b.WriteString(homeStyle.Render(strings.Repeat("█", len(run))))
		case 'o':
			b.WriteString(targetStyle.Render(strings.Repeat("●", len(run))))
		default:
			b.WriteString(run)
		}
	}
	start := 0
	for i := 1; i <= len(line); i++ {
		if i == len(line) || line[i] != line[start] {
			flush(line[start], line[start:i])
			start = i
		}
	}
	return b.String()
}
