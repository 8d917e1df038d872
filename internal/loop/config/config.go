// Package config centralizes all tunable game parameters.
package config

import "time"

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// LegacyTickTime reproduces the fixed one-second tick of the very first
	// revision, selected with STARDUST_FPS=1.
	LegacyTickTime = time.Second

	// WebTargetFPS is lower than the terminal rate; each frame is a JSON message.
	WebTargetFPS = 20
)

// Effect spawning
const (
	EffectStagger = 100 * time.Millisecond // Delay between consecutive spawns of one burst

	AmountEffectDivisor  = 10.0
	AmountEffectMax      = 100
	AmountEffectInterval = 1000 * time.Millisecond

	RateEffectDivisor  = 1.0
	RateEffectMax      = 80
	RateEffectInterval = 2000 * time.Millisecond
)

// Input
const (
	InputBufferSize = 256 // Pending input events before new ones are dropped
)

// Display
const (
	DefaultRateDecimals = 2
	MaxTermWidth        = 100
	MaxTermHeight       = 32
	GradientSpeed       = 8.0 // Cells per second the colour band scrolls
)

// Shooting stars
const (
	StarMinSpeed    = 40.0 // Logical units per second
	StarMaxSpeed    = 70.0
	StarMinLifetime = 0.8 // Seconds
	StarMaxLifetime = 1.6
	StarTrailLength = 6.0 // Logical units
	MaxLiveStars    = 200
)

// Logical canvas resolution for effects. Rendering scales to the terminal.
const (
	ViewWidth  = 120
	ViewHeight = 80 // Sub-pixels, so 40 terminal rows
)
