package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/stardust/internal/draw"
)

// Field owns the live sprites and caps how many can exist at once.
type Field struct {
	objects []Object
	limit   int
	screen  Screen
	rng     *rand.Rand
}

// NewField creates an empty field of the given logical size.
func NewField(screen Screen, limit int, seed int64) *Field {
	return &Field{
		limit:  limit,
		screen: screen,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Spawn adds obj, or releases it when the field is full.
func (f *Field) Spawn(obj Object) bool {
	if len(f.objects) >= f.limit {
		ReleaseObject(obj)
		return false
	}
	f.objects = append(f.objects, obj)
	return true
}

// SpawnShootingStar adds a randomly placed shooting star.
func (f *Field) SpawnShootingStar() bool {
	return f.Spawn(RandomShootingStar(f.rng, f.screen))
}

// Update advances all objects and drops expired ones.
func (f *Field) Update(delta time.Duration) {
	ctx := UpdateContext{Delta: delta, Screen: f.screen}
	kept := f.objects[:0]
	for _, obj := range f.objects {
		if obj.Update(ctx) {
			ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(f.objects[len(kept):])
	f.objects = kept
}

// Draw plots every object.
func (f *Field) Draw(c *draw.Canvas) {
	for _, obj := range f.objects {
		obj.Draw(c)
	}
}

// Len returns the number of live objects.
func (f *Field) Len() int {
	return len(f.objects)
}
