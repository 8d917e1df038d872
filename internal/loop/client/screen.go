package client

import (
	"fmt"

	"github.com/tomz197/stardust/internal/draw"
	"github.com/tomz197/stardust/internal/loop"
	"github.com/tomz197/stardust/internal/loop/config"
)

var (
	titleStyle   = draw.Style{FG: draw.ColorGold, Bold: true}
	amountStyle  = draw.Style{FG: draw.ColorStar, Bold: true}
	labelStyle   = draw.Style{FG: draw.ColorAccent}
	buyableStyle = draw.Style{FG: draw.ColorWhite, Bold: true}
	lockedStyle  = draw.Style{FG: draw.ColorDim, Faint: true}
)

// Render draws one frame. Called from the driver goroutine.
func (c *Client) Render(frame loop.Frame) error {
	c.updateScreen()

	c.field.Update(frame.Delta)
	for ; c.state.pendingStars > 0; c.state.pendingStars-- {
		c.field.SpawnShootingStar()
	}
	c.state.gradientOffset += frame.Delta.Seconds() * config.GradientSpeed

	c.canvas.Clear()
	c.field.Draw(c.canvas)
	c.drawHUD(frame)

	c.canvas.Render(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual cells
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.state.offsetCol || offsetRow != c.state.offsetRow {
		c.chunkWriter.WriteString("\033[0m\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.offsetCol, c.state.offsetRow = offsetCol, offsetRow
}

// drawHUD lays the counters, the upgrade list and the key help over the
// star field.
func (c *Client) drawHUD(frame loop.Frame) {
	height := c.canvas.TerminalHeight()
	if height == 0 {
		return
	}

	c.canvas.Gradient(0, c.state.gradientOffset)
	if height > 1 {
		c.canvas.Gradient(height-1, -c.state.gradientOffset)
	}

	c.canvas.TextCentered(2, "✦  S T A R D U S T  ✦", titleStyle)
	c.canvas.TextCentered(4, fmt.Sprintf("%.2f stardust", frame.Amount), amountStyle)
	c.canvas.TextCentered(5, fmt.Sprintf("%.*f stardust/sec", c.state.rateDecimals, frame.GrowthRate), labelStyle)
	c.canvas.TextCentered(7, "[ SPACE ] collect stardust", labelStyle)

	row := 9
	for i, u := range frame.Upgrades {
		if row >= height-2 {
			break
		}
		style := lockedStyle
		if u.Affordable {
			style = buyableStyle
		}
		c.canvas.TextCentered(row, upgradeLine(i, u), style)
		row++
	}

	c.canvas.TextCentered(height-2, c.helpLine(), lockedStyle)
}

func upgradeLine(i int, u loop.UpgradeView) string {
	key := "-"
	if i < 9 {
		key = fmt.Sprint(i + 1)
	}
	return fmt.Sprintf("[%s] %-20s x%-4d cost %10.2f  +%g/s", key, u.Name, u.Count, u.Cost, u.Rate)
}

func (c *Client) helpLine() string {
	help := "1-9 buy · q quit"
	if c.music == nil {
		return help
	}
	status := "off"
	if c.music.Playing() {
		status = "on"
	}
	return fmt.Sprintf("1-9 buy · m music (%s) · q quit", status)
}
