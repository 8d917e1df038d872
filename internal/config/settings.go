package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Settings holds the game options shared by every front-end.
type Settings struct {
	FPS          int
	Effects      string // Effect policy preset: amount, rate or off
	Audio        bool
	Volume       float64 // 0..1
	RateDecimals int     // Decimal places shown for stardust/sec
	LogFile      string
	LogLevel     string
}

// LoadSettings reads the STARDUST_* environment variables.
func LoadSettings() Settings {
	s := Settings{
		FPS:          GetEnvInt("STARDUST_FPS", 60),
		Effects:      GetEnv("STARDUST_EFFECTS", "amount"),
		Audio:        GetEnvBool("STARDUST_AUDIO", true),
		Volume:       GetEnvFloat("STARDUST_VOLUME", 0.5),
		RateDecimals: GetEnvInt("STARDUST_RATE_DECIMALS", 2),
		LogFile:      GetEnv("STARDUST_LOG", ""),
		LogLevel:     GetEnv("STARDUST_LOG_LEVEL", "info"),
	}
	if s.FPS < 1 {
		s.FPS = 1
	}
	if s.Volume < 0 {
		s.Volume = 0
	}
	if s.Volume > 1 {
		s.Volume = 1
	}
	if s.RateDecimals < 0 || s.RateDecimals > 4 {
		s.RateDecimals = 2
	}
	return s
}

// FrameTime returns the period between frames.
func (s Settings) FrameTime() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// NewLogger builds a logger writing to w at the configured level.
// An unparsable level falls back to info.
func (s Settings) NewLogger(w io.Writer, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// OpenLog opens the configured log file for appending. Without one it
// returns io.Discard, because a terminal front-end owns stdout/stderr.
func (s Settings) OpenLog() (io.WriteCloser, error) {
	if s.LogFile == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", s.LogFile, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
