package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/stardust/internal/draw"
	"github.com/tomz197/stardust/internal/loop/config"
)

var starPool = sync.Pool{
	New: func() any {
		return &ShootingStar{}
	},
}

// ShootingStar streaks diagonally across the screen and fades out.
type ShootingStar struct {
	X, Y        float64 // Head position
	VX, VY      float64 // Velocity, logical units per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Trail       float64 // Trail length in logical units
}

// NewShootingStar takes a star from the pool.
func NewShootingStar(x, y, vx, vy, lifetime float64) *ShootingStar {
	s := starPool.Get().(*ShootingStar)
	s.X = x
	s.Y = y
	s.VX = vx
	s.VY = vy
	s.Lifetime = lifetime
	s.MaxLifetime = lifetime
	s.Trail = config.StarTrailLength
	return s
}

// RandomShootingStar spawns a star along the top or left edge of screen,
// heading down and to the right at a shallow random angle.
func RandomShootingStar(rng *rand.Rand, screen Screen) *ShootingStar {
	var x, y float64
	if rng.Float64() < 0.7 {
		x = rng.Float64() * screen.Width
		y = 0
	} else {
		x = 0
		y = rng.Float64() * screen.Height / 2
	}

	angle := math.Pi/8 + rng.Float64()*math.Pi/6
	speed := config.StarMinSpeed + rng.Float64()*(config.StarMaxSpeed-config.StarMinSpeed)
	life := config.StarMinLifetime + rng.Float64()*(config.StarMaxLifetime-config.StarMinLifetime)

	return NewShootingStar(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, life)
}

// Release returns the star to the pool.
func (s *ShootingStar) Release() {
	starPool.Put(s)
}

// Update moves the star and expires it when its lifetime ends or it leaves
// the screen.
func (s *ShootingStar) Update(ctx UpdateContext) bool {
	dt := ctx.Delta.Seconds()
	s.Lifetime -= dt
	if s.Lifetime <= 0 {
		return true
	}
	s.X += s.VX * dt
	s.Y += s.VY * dt
	return !ctx.Screen.Contains(s.X, s.Y, s.Trail)
}

// Draw plots the head and a trail that dims away from it.
func (s *ShootingStar) Draw(c *draw.Canvas) {
	fade := 1.0
	if s.MaxLifetime > 0 {
		fade = math.Min(1, 2*s.Lifetime/s.MaxLifetime)
	}

	speed := math.Hypot(s.VX, s.VY)
	if speed == 0 {
		c.SetFloat(s.X, s.Y, uint8(255*fade))
		return
	}
	dx, dy := -s.VX/speed, -s.VY/speed

	steps := int(math.Ceil(s.Trail))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		brightness := 255 * fade * (1 - t)
		if brightness < 1 {
			break
		}
		c.SetFloat(s.X+dx*float64(i), s.Y+dy*float64(i), uint8(brightness))
	}
}
