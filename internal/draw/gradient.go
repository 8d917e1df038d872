package draw

import "math"

// Shades from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for an intensity between 0 and 1.
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// gradientRamp loops deep blue through violet and pink and back.
var gradientRamp = []uint8{17, 18, 19, 20, 21, 57, 93, 129, 165, 201, 200, 199, 198, 163, 127, 91, 55, 54, 18}

// GradientColor returns the ramp colour at position pos (in cells); the ramp
// repeats every len(gradientRamp)*span cells.
func GradientColor(pos, span float64) uint8 {
	if span <= 0 {
		span = 1
	}
	n := float64(len(gradientRamp))
	i := math.Mod(pos/span, n)
	if i < 0 {
		i += n
	}
	return gradientRamp[int(i)]
}

// Gradient fills row with the colour ramp scrolled by offset cells.
// The shade character ripples with a slower sine so the band looks alive.
func (c *Canvas) Gradient(row int, offset float64) {
	for col := 0; col < c.termWidth; col++ {
		pos := float64(col) + offset
		wave := 0.55 + 0.45*math.Sin(pos/7)
		c.Cell(col, row, ShadeLevel(wave), Style{FG: GradientColor(pos, 4)})
	}
}
