package draw

import (
	"bytes"
	"strings"
	"testing"
)

func renderString(c *Canvas) string {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 0, 0)
	c.Render(cw)
	if err := cw.Flush(); err != nil {
		panic(err)
	}
	return buf.String()
}

func TestCanvasTextAndDiff(t *testing.T) {
	c := NewScaledCanvas(10, 3, 10, 6)
	c.Text(1, 1, "hi", Style{FG: ColorGold})

	first := renderString(c)
	if !strings.Contains(first, "hi") {
		t.Fatalf("expected text in first render: %q", first)
	}

	c.Clear()
	c.Text(1, 1, "hi", Style{FG: ColorGold})
	if second := renderString(c); second != "" {
		t.Fatalf("expected empty diff got %q", second)
	}

	c.Clear()
	second := renderString(c)
	if !strings.Contains(second, "\033[2;2H\033[0m  ") {
		t.Fatalf("expected text to be blanked got %q", second)
	}
}

func TestCanvasForceRedraw(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	renderString(c)
	c.ForceRedraw()
	out := renderString(c)
	if strings.Count(out, " ") != 8 {
		t.Fatalf("expected all 8 cells repainted got %q", out)
	}
}

func TestCanvasHalfBlocks(t *testing.T) {
	// 1:1 scale: logical y 0 and 1 are the top and bottom halves of row 0.
	c := NewScaledCanvas(3, 1, 3, 2)
	c.SetFloat(0, 0, 255)
	c.SetFloat(1, 1, 150)
	c.SetFloat(2, 0, 50)
	c.SetFloat(2, 1, 50)
	c.SetFloat(-5, 0, 255)
	c.SetFloat(99, 99, 255)

	cases := []struct {
		col  int
		want rune
	}{
		{0, BlockUpperHalf},
		{1, BlockLowerHalf},
		{2, BlockFull},
	}
	for _, tc := range cases {
		if got := c.resolve(tc.col, 0).ch; got != tc.want {
			t.Errorf("col %d: expected %q got %q", tc.col, tc.want, got)
		}
	}
}

func TestTextOverridesPixels(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetFloat(0, 0, 255)
	c.Cell(0, 0, 'x', Style{})
	if got := c.resolve(0, 0).ch; got != 'x' {
		t.Fatalf("expected text to win got %q", got)
	}
}

func TestTextClipping(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.Text(-1, 0, "abcde", Style{})
	if c.resolve(0, 0).ch != 'b' || c.resolve(2, 0).ch != 'd' {
		t.Fatalf("unexpected clipping")
	}
	c.Text(0, 5, "zzz", Style{})
}

func TestResizeForcesRepaint(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	renderString(c)
	c.Resize(3, 1)
	if out := renderString(c); strings.Count(out, " ") != 3 {
		t.Fatalf("expected full repaint after resize got %q", out)
	}
}

func TestStyleSGR(t *testing.T) {
	if got := (Style{}).SGR(); got != "\033[0m" {
		t.Fatalf("unexpected default SGR %q", got)
	}
	if got := (Style{FG: 220, Bold: true}).SGR(); got != "\033[0;1;38;5;220m" {
		t.Fatalf("unexpected SGR %q", got)
	}
}

func TestGradientColorWraps(t *testing.T) {
	n := float64(len(gradientRamp))
	if GradientColor(0, 1) != GradientColor(n, 1) {
		t.Fatalf("expected ramp to repeat")
	}
	if GradientColor(-1, 1) != gradientRamp[len(gradientRamp)-1] {
		t.Fatalf("expected negative positions to wrap")
	}
}

func TestShadeLevel(t *testing.T) {
	if ShadeLevel(-1) != ' ' || ShadeLevel(2) != '█' {
		t.Fatalf("unexpected shade bounds")
	}
}
