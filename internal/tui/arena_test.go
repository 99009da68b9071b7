package tui

import (
	"strings"
	"testing"
)

func TestArenaCoordinateTranslation(t *testing.T) {
	a := newArena(80, 24)
	x, y := a.toArena(a.cx, a.cy)
	if x != 0 || y != 0 {
		t.Fatalf("center must map to the origin, got (%v, %v)", x, y)
	}
	x, y = a.toArena(a.cx+10, a.cy-3)
	if x != 10 || y != 6 {
		t.Fatalf("expected (10, 6), got (%v, %v)", x, y)
	}
	x, y = a.toArena(a.cx-5, a.cy+2)
	if x != -5 || y != -4 {
		t.Fatalf("expected (-5, -4), got (%v, %v)", x, y)
	}
}

func TestArenaSpan(t *testing.T) {
	a := newArena(81, 25)
	spanX, spanY := a.span()
	if spanX != 40 {
		t.Fatalf("expected horizontal span 40, got %v", spanX)
	}
	if spanY != 24 {
		t.Fatalf("expected vertical span 24, got %v", spanY)
	}
}

func TestHomeSquareMatchesRendering(t *testing.T) {
	a := newArena(40, 20)
	out := a.render(false, 0, 0, 0)
	rows := strings.Split(out, "\n")
	if len(rows) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(rows))
	}
	marked := 0
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			x, y := a.toArena(col, row)
			if onHomeSquare(x, y) {
				marked++
			}
		}
	}
	// Five columns across, three rows down.
	if marked != 15 {
		t.Fatalf("expected a 5x3 home block, got %d cells", marked)
	}
	if !strings.Contains(out, "█") {
		t.Fatal("rendered arena must contain the home marker")
	}
}

func TestTargetDiskRendering(t *testing.T) {
	a := newArena(60, 20)
	out := a.render(true, 15, 0, 4)
	if !strings.Contains(out, "●") {
		t.Fatal("rendered arena must contain the target disk")
	}

	if !onDisk(15, 0, 15, 0, 16) {
		t.Fatal("target center must be on the disk")
	}
	if !onDisk(15, 4, 15, 0, 16) {
		t.Fatal("disk edge must be inclusive")
	}
	if onDisk(15, 4.1, 15, 0, 16) {
		t.Fatal("points past the radius must miss")
	}
}
