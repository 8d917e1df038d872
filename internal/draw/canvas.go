package draw

import (
	"math"
	"unicode/utf8"
)

// Block characters for sub-pixel rendering.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

type cell struct {
	ch    rune
	style Style
}

var blank = cell{ch: ' '}

// Canvas is a cell buffer with a text layer on top of a sub-pixel layer.
// Pixels use 2x vertical resolution via half-block characters and are
// addressed in logical coordinates that scale to the terminal size.
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int

	text   []cell  // [row*termWidth + col]; ch == 0 means no text
	pixels []uint8 // [y*termWidth + x] brightness, 0 = off
	prev   []cell  // What the terminal currently shows
	dirty  bool    // Force a full repaint on next Render

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64
}

// NewScaledCanvas creates a canvas of termWidth x termHeight cells whose
// pixel layer is addressed in a logicalWidth x logicalHeight space.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A size change forces a full repaint.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.text == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.text = make([]cell, termWidth*termHeight)
		c.pixels = make([]uint8, termWidth*c.subPixelHeight)
		c.prev = make([]cell, termWidth*termHeight)
		c.dirty = true
	}
	if c.logicalWidth > 0 && c.logicalHeight > 0 {
		c.scaleX = float64(termWidth) / c.logicalWidth
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// ForceRedraw makes the next Render repaint every cell.
func (c *Canvas) ForceRedraw() {
	c.dirty = true
}

// Clear empties both layers. The terminal is untouched until Render.
func (c *Canvas) Clear() {
	clear(c.text)
	clear(c.pixels)
}

// SetFloat lights the pixel at logical (x, y) with the given brightness.
// Brighter values win when pixels overlap.
func (c *Canvas) SetFloat(x, y float64, brightness uint8) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return
	}
	i := py*c.termWidth + px
	if brightness > c.pixels[i] {
		c.pixels[i] = brightness
	}
}

// Text writes s starting at 0-based (col, row), clipped to the canvas.
func (c *Canvas) Text(col, row int, s string, style Style) {
	if row < 0 || row >= c.termHeight {
		return
	}
	for _, r := range s {
		if col >= c.termWidth {
			return
		}
		if col >= 0 {
			c.text[row*c.termWidth+col] = cell{ch: r, style: style}
		}
		col++
	}
}

// TextCentered writes s centered on row.
func (c *Canvas) TextCentered(row int, s string, style Style) {
	c.Text((c.termWidth-utf8.RuneCountInString(s))/2, row, s, style)
}

// Cell sets a single text cell.
func (c *Canvas) Cell(col, row int, ch rune, style Style) {
	if col < 0 || col >= c.termWidth || row < 0 || row >= c.termHeight {
		return
	}
	c.text[row*c.termWidth+col] = cell{ch: ch, style: style}
}

// resolve returns what cell (col, row) should show.
func (c *Canvas) resolve(col, row int) cell {
	i := row*c.termWidth + col
	if t := c.text[i]; t.ch != 0 {
		return t
	}
	top := c.pixels[(row*2)*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]

	var ch rune
	switch {
	case top > 0 && bottom > 0:
		ch = BlockFull
	case top > 0:
		ch = BlockUpperHalf
	case bottom > 0:
		ch = BlockLowerHalf
	default:
		return blank
	}
	return cell{ch: ch, style: pixelStyle(max(top, bottom))}
}

func pixelStyle(brightness uint8) Style {
	switch {
	case brightness >= 200:
		return Style{FG: ColorWhite, Bold: true}
	case brightness >= 100:
		return Style{FG: ColorStar}
	default:
		return Style{FG: ColorDim, Faint: true}
	}
}

// Render writes every changed cell to cw and leaves the style reset.
func (c *Canvas) Render(cw *ChunkWriter) {
	var current Style
	styled := false
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			i := row*c.termWidth + col
			next := c.resolve(col, row)
			shown := c.prev[i]
			if shown.ch == 0 {
				shown = blank
			}
			if !c.dirty && next == shown {
				continue
			}

			if row != lastRow || col != lastCol+1 {
				cw.MoveCursor(col+1, row+1)
			}
			if !styled || next.style != current {
				cw.WriteString(next.style.SGR())
				current = next.style
				styled = true
			}
			cw.WriteRune(next.ch)
			c.prev[i] = next
			lastRow, lastCol = row, col
		}
	}

	if styled {
		cw.WriteString("\033[0m")
	}
	c.dirty = false
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalWidth returns the logical width of the pixel layer.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height of the pixel layer.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}
