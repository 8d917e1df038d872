// Package object holds the decorative sprites drawn behind the HUD.
package object

import (
	"time"

	"github.com/tomz197/stardust/internal/draw"
)

// Screen is the logical area sprites live in.
type Screen struct {
	Width  float64
	Height float64
}

// Contains reports whether (x, y) lies inside the screen plus margin.
func (s Screen) Contains(x, y, margin float64) bool {
	return x >= -margin && x <= s.Width+margin && y >= -margin && y <= s.Height+margin
}

// UpdateContext provides what an object needs during update.
type UpdateContext struct {
	Delta  time.Duration
	Screen Screen
}

// Object is a drawable and updatable sprite.
type Object interface {
	// Update advances the object. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw plots the object on the canvas pixel layer.
	Draw(c *draw.Canvas)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}
