// Package input turns raw terminal bytes into game actions.
package input

import (
	"bufio"
	"context"
)

// Action identifies what a key press asks the game to do.
type Action int

const (
	ActionNone Action = iota
	ActionClick
	ActionBuy // Buy the upgrade in Event.Slot
	ActionToggleMusic
	ActionQuit
)

// Event is one decoded key press.
type Event struct {
	Action Action
	Slot   int // 0-based upgrade index for ActionBuy
}

// Stream decodes bytes from a reader on its own goroutine.
type Stream struct {
	ch chan Event
}

// StartStream spawns a goroutine that reads from r and emits decoded events.
// The channel is closed when r returns an error (e.g. the session ended) or
// ctx is cancelled.
func StartStream(ctx context.Context, r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan Event, 128)}
	go func() {
		defer close(s.ch)
		var esc []byte
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}

			var ev Event
			ev, esc = decode(esc, b)
			if ev.Action == ActionNone {
				continue
			}
			select {
			case s.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

// Events returns the decoded event channel.
func (s *Stream) Events() <-chan Event {
	return s.ch
}

// decode consumes one byte. esc carries a partially read escape sequence
// between calls; arrow keys and other CSI sequences are swallowed.
func decode(esc []byte, b byte) (Event, []byte) {
	if len(esc) > 0 {
		esc = append(esc, b)
		// ESC [ <params> <final>, final byte in 0x40..0x7e
		if len(esc) == 2 && b != '[' {
			return decodeByte(b), esc[:0]
		}
		if len(esc) > 2 && b >= 0x40 && b <= 0x7e {
			return Event{}, esc[:0]
		}
		if len(esc) > 8 {
			return Event{}, esc[:0]
		}
		return Event{}, esc
	}
	if b == '\x1b' {
		return Event{}, append(esc, b)
	}
	return decodeByte(b), esc
}

func decodeByte(b byte) Event {
	switch b {
	case ' ', '\n', '\r', 'c', 'C':
		return Event{Action: ActionClick}
	case 'm', 'M':
		return Event{Action: ActionToggleMusic}
	case 'q', 'Q', '\x03':
		return Event{Action: ActionQuit}
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return Event{Action: ActionBuy, Slot: int(b - '1')}
	}
	return Event{}
}
