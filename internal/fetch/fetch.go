// Package fetch resolves SongMetadata into loaded Tracks, trying a chain
// of getters in order until one can produce the audio bytes.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// Error kinds a Getter can fail with.
const (
	KindIO        = "io"
	KindDownload  = "download"
	KindTranscode = "transcode"
)

// Error wraps a getter failure with the stage it happened at.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("fetch(%s): %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// ErrNoGetter is returned when no getter in a Chain can handle a track.
var ErrNoGetter = errors.New("fetch: no getter could resolve track")

// Getter can produce a track's raw audio bytes if it recognizes the
// metadata.
type Getter interface {
	CanGet(meta track.SongMetadata) bool
	Get(ctx context.Context, meta track.SongMetadata) (io.ReadCloser, error)
}

// Chain tries each Getter in order, falling through to the next on
// failure.
type Chain struct {
	Getters []Getter
}

// Get resolves meta through the first getter in the chain that both claims
// it can handle it and actually succeeds.
func (c *Chain) Get(ctx context.Context, meta track.SongMetadata) (io.ReadCloser, error) {
	var lastErr error
	for _, g := range c.Getters {
		if !g.CanGet(meta) {
			continue
		}
		rc, err := g.Get(ctx, meta)
		if err != nil {
			slog.Warn("fetch: getter failed, trying next", "title", meta.Title, "error", err)
			lastErr = err
			continue
		}
		return rc, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoGetter
}

// LoadTrack resolves meta through chain and parses the resulting bytes
// into a playable Track.
func LoadTrack(ctx context.Context, chain *Chain, meta track.SongMetadata) (*track.Track, error) {
	rc, err := chain.Get(ctx, meta)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &Error{Kind: KindIO, Err: err}
	}
	return track.Load(meta, data)
}
