// Package station runs the producer loop that turns a queue of tracks
// into a live broadcast, and tracks the currently-playing state new
// listeners prime from.
package station

import (
	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// Message is the payload type carried over the station's bus. It is
// exactly one of NextMessage or FramesMessage.
type Message interface {
	isMessage()
}

// NextMessage announces that a new track has started playing.
type NextMessage struct {
	Song track.SongMetadata
}

func (NextMessage) isMessage() {}

// FramesMessage carries one batch of consecutive MPEG frames from the
// currently-playing track.
type FramesMessage struct {
	Frames []mp3.Frame
}

func (FramesMessage) isMessage() {}

// Control is a command sent to the producer loop.
type Control int

// SkipCurr asks the producer to abandon the currently-playing track and
// advance to the next one immediately.
const SkipCurr Control = iota
