package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ambientNotes is a slow Am9 arpeggio, in Hz.
var ambientNotes = []float64{220.00, 261.63, 329.63, 392.00, 493.88, 392.00, 329.63, 261.63}

const (
	ambientNote  = 600 * time.Millisecond
	ambientLevel = 0.18
)

// Ambient is an endless soft arpeggio over a low drone.
type Ambient struct {
	sr    beep.SampleRate
	pos   int
	phase float64 // Lead oscillator phase in [0, 1)
	drone float64 // Drone oscillator phase in [0, 1)
}

// NewAmbient creates the background track generator.
func NewAmbient(sr beep.SampleRate) *Ambient {
	return &Ambient{sr: sr}
}

func (a *Ambient) Stream(samples [][2]float64) (n int, ok bool) {
	noteLen := a.sr.N(ambientNote)
	for i := range samples {
		note := (a.pos / noteLen) % len(ambientNotes)
		inNote := float64(a.pos%noteLen) / float64(noteLen)

		// Soft attack, long release per note
		env := math.Min(inNote*10, 1) * math.Exp(-3*inNote)

		lead := math.Sin(2*math.Pi*a.phase) * env
		drone := 0.4 * math.Sin(2*math.Pi*a.drone)
		v := ambientLevel * (lead + drone)

		samples[i][0] = v
		samples[i][1] = v

		a.phase += ambientNotes[note] / float64(a.sr)
		a.phase -= math.Floor(a.phase)
		a.drone += 55.0 / float64(a.sr)
		a.drone -= math.Floor(a.drone)
		a.pos++
	}
	return len(samples), true
}

func (a *Ambient) Err() error {
	return nil
}
