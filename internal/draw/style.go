package draw

import "strconv"

// Style is a foreground colour from the 256-colour palette plus attributes.
// The zero value is the terminal default.
type Style struct {
	FG    uint8 // 0 means default foreground
	Bold  bool
	Faint bool
}

// Palette entries used by the game.
const (
	ColorWhite  uint8 = 231
	ColorGold   uint8 = 220
	ColorStar   uint8 = 229
	ColorDim    uint8 = 244
	ColorAccent uint8 = 141
)

// SGR returns the escape sequence that selects s, always starting from a reset.
func (s Style) SGR() string {
	b := make([]byte, 0, 16)
	b = append(b, "\033[0"...)
	if s.Bold {
		b = append(b, ";1"...)
	}
	if s.Faint {
		b = append(b, ";2"...)
	}
	if s.FG != 0 {
		b = append(b, ";38;5;"...)
		b = strconv.AppendUint(b, uint64(s.FG), 10)
	}
	b = append(b, 'm')
	return string(b)
}
