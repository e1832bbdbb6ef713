package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Series is a polyline in world coordinates (metres).
type Series struct {
	X, Y []float64
	// Dotted draws only every fourth sample and no connecting lines.
	Dotted bool
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(series []Series) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range series {
		for i := range s.X {
			if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
				continue
			}
			b.minX = min(b.minX, s.X[i])
			b.maxX = max(b.maxX, s.X[i])
			b.minY = min(b.minY, s.Y[i])
			b.maxY = max(b.maxY, s.Y[i])
		}
	}
	ok := b.maxX > b.minX || b.maxY > b.minY
	return b, ok && !math.IsInf(b.minX, 0)
}

// Sketch draws the series on a w x h character braille canvas. Both axes
// share one scale so slopes keep their true angle.
func Sketch(series []Series, w, h int) string {
	c := NewCanvas(w, h)
	b, ok := boundsOf(series)
	if !ok {
		return c.String()
	}

	pw, ph := float64(2*w-1), float64(4*h-1)
	scale := math.Inf(1)
	if b.maxX > b.minX {
		scale = pw / (b.maxX - b.minX)
	}
	if b.maxY > b.minY {
		scale = min(scale, ph/(b.maxY-b.minY))
	}
	// top-align the drawing; y grows downward on the canvas
	px := func(x float64) int { return int(math.Round((x - b.minX) * scale)) }
	py := func(y float64) int { return int(math.Round((b.maxY - y) * scale)) }

	for _, s := range series {
		prev := -1
		for i := range s.X {
			if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
				prev = -1
				continue
			}
			if s.Dotted {
				if i%4 == 0 {
					c.Set(px(s.X[i]), py(s.Y[i]))
				}
				continue
			}
			if prev >= 0 {
				c.DrawLine(px(s.X[prev]), py(s.Y[prev]), px(s.X[i]), py(s.Y[i]))
			} else {
				c.Set(px(s.X[i]), py(s.Y[i]))
			}
			prev = i
		}
	}
	return c.String()
}
