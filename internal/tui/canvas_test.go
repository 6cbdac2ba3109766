package tui

import (
	"strings"
	"testing"
)

func TestCanvasSetBits(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if got := c.cells[0][0]; got != 0x2801 {
		t.Errorf("top-left dot: got %#x, want 0x2801", got)
	}

	c.Set(1, 3)
	if got := c.cells[0][0]; got != 0x2801|0x80 {
		t.Errorf("bottom-right dot of first cell: got %#x", got)
	}

	c.Set(7, 7)
	if got := c.cells[1][3]; got != 0x2800|0x80 {
		t.Errorf("last cell: got %#x", got)
	}
}

func TestCanvasIgnoresOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -5)
	c.Set(4, 0)
	c.Set(0, 8)
	for _, row := range c.cells {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Fatalf("out-of-range set touched the canvas: %#x", cell)
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Mark(2, 4, 2)
	c.Clear()
	for _, row := range c.cells {
		for _, cell := range row {
			if cell != 0x2800 {
				t.Fatalf("clear left %#x behind", cell)
			}
		}
	}
}

func TestCanvasLineHitsEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Line(0, 0, 19, 39)

	if c.cells[0][0] == 0x2800 {
		t.Error("line start not set")
	}
	if c.cells[9][9] == 0x2800 {
		t.Error("line end not set")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3", len(lines))
	}
	for _, line := range lines {
		if n := len([]rune(line)); n != 5 {
			t.Errorf("row width %d, want 5", n)
		}
	}
}
