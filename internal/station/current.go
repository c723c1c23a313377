package station

import (
	"sync"

	"github.com/kaizenfm/kaizen-radio/internal/bus"
	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// Current is the station's current-state cache (song metadata and the
// most recent frame batch), kept in lockstep with what the bus has
// published so a newly-attaching listener never observes a gap or a
// duplicate relative to the live stream it subscribes into.
//
// The same mutex that guards the cached state also guards Subscribe, so a
// reader's (snapshot, subscribe) pair always straddles a single producer
// update atomically rather than racing with it.
type Current struct {
	mu     sync.Mutex
	song   *track.SongMetadata
	chunk  []mp3.Frame
	sender *bus.Sender[Message]
}

// NewCurrent returns a Current bound to sender.
func NewCurrent(sender *bus.Sender[Message]) *Current {
	return &Current{sender: sender}
}

// PublishNext records a new current song and publishes it, as one atomic
// step.
func (c *Current) PublishNext(meta track.SongMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := meta
	c.song = &m
	return c.sender.Send(NextMessage{Song: meta})
}

// PublishFrames records a new current frame batch and publishes it, as one
// atomic step.
func (c *Current) PublishFrames(batch []mp3.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunk = batch
	return c.sender.Send(FramesMessage{Frames: batch})
}

// Snapshot returns the current song and frame batch without subscribing.
func (c *Current) Snapshot() (*track.SongMetadata, []mp3.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.song, c.chunk
}

// Attach atomically returns the current song, the current frame batch, and
// a Receiver positioned right after them — the primitive every new
// listener (HTTP or raw TCP) uses to join the live stream.
func (c *Current) Attach() (*track.SongMetadata, []mp3.Frame, *bus.Receiver[Message]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.song, c.chunk, c.sender.Subscribe()
}
