// Package audio plays the optional background music.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// ErrDisabled is returned by Start when audio is turned off in the config.
var ErrDisabled = errors.New("audio disabled")

// backend is the process-wide output device.
type backend interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type speakerBackend struct{}

func (speakerBackend) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (speakerBackend) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerBackend) Lock()                { speaker.Lock() }
func (speakerBackend) Unlock()              { speaker.Unlock() }
func (speakerBackend) Close()               { speaker.Close() }

// Config controls the player.
type Config struct {
	Enabled bool
	Volume  float64 // 0..1
}

// Player owns the background track. Starting can fail (no device, no
// permission); the failure is logged and the next Resume tries again.
type Player struct {
	mu      sync.Mutex
	cfg     Config
	log     *log.Logger
	out     backend
	ready   bool // Device initialised
	started bool // Track playing
	ctrl    *beep.Ctrl
	volume  *effects.Volume
}

// NewPlayer creates a player for the system speaker.
func NewPlayer(cfg Config, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{cfg: cfg, log: logger, out: speakerBackend{}}
}

// Start initialises the device if needed and starts the looped track.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		return ErrDisabled
	}
	if p.started {
		return nil
	}
	if !p.ready {
		if err := p.out.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		p.ready = true
	}

	p.ctrl = &beep.Ctrl{Streamer: NewAmbient(sampleRate)}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	setLevel(p.volume, p.cfg.Volume)
	p.out.Play(p.volume)
	p.started = true
	return nil
}

// Resume is meant to run on every user interaction: it starts playback if
// an earlier attempt failed or never happened.
func (p *Player) Resume() {
	p.mu.Lock()
	pending := p.cfg.Enabled && !p.started
	p.mu.Unlock()
	if !pending {
		return
	}
	if err := p.Start(); err != nil {
		p.log.Warn("background music unavailable, will retry on next interaction", "err", err)
		return
	}
	p.log.Info("background music started")
}

// ToggleMute pauses or resumes the track and reports whether it is now muted.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return true
	}
	p.out.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	muted := p.ctrl.Paused
	p.out.Unlock()
	return muted
}

// Started reports whether the track has been started.
func (p *Player) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Playing reports whether the track is running and not muted.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return false
	}
	p.out.Lock()
	defer p.out.Unlock()
	return !p.ctrl.Paused
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	p.out.Close()
	p.ready = false
	p.started = false
}

// setLevel maps a linear 0..1 level onto the log-scale volume effect.
func setLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(math.Min(level, 1))
}
