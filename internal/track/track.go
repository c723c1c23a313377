// Package track holds the metadata and loaded-audio types shared by the
// fetch, queue, and station layers.
package track

import (
	"bufio"
	"bytes"
	"errors"

	"github.com/kaizenfm/kaizen-radio/internal/mp3"
)

// SongMetadata identifies a track independent of where its audio bytes
// come from. SourceHint is the URL the downloader getter fetches from; it
// may be empty, since the filesystem getter locates files by artist and
// title alone.
type SongMetadata struct {
	Title      string
	Artist     string
	SourceHint string
}

// Track is a fully resolved, decodable song: its metadata plus the raw
// encoded bytes and the duration computed by summing every frame in it.
type Track struct {
	Metadata      SongMetadata
	Raw           []byte
	TotalDuration float64
	Codec         string
}

// Load builds a Track from raw MPEG bytes (an optional ID3v2 tag followed
// by a stream of MPEG frames), computing its total duration.
func Load(meta SongMetadata, data []byte) (*Track, error) {
	duration, err := sumDurations(data)
	if err != nil {
		return nil, err
	}
	return &Track{Metadata: meta, Raw: data, TotalDuration: duration, Codec: "mp3"}, nil
}

// Frames returns a fresh iterator over this track's MPEG frames, starting
// after any leading ID3v2 tag.
func (t *Track) Frames() *mp3.FrameIterator {
	return mp3.NewFrameIterator(audioReader(t.Raw))
}

func audioReader(data []byte) *bufio.Reader {
	offset := skipID3(data)
	r := bufio.NewReader(bytes.NewReader(data[offset:]))
	mp3.SeekSync(r) //nolint:errcheck // EOF here just yields zero frames
	return r
}

func skipID3(data []byte) int {
	_, consumed, err := mp3.ParseTag(data)
	if err != nil || consumed == 0 {
		return 0
	}
	return consumed
}

func sumDurations(data []byte) (float64, error) {
	r := audioReader(data)
	it := mp3.NewFrameIterator(r)
	var total float64
	for {
		f, ok, err := it.Next()
		if err != nil {
			if errors.Is(err, mp3.ErrMalformedAudio) {
				break
			}
			return total, err
		}
		if !ok {
			break
		}
		d, err := f.Header.Duration()
		if err != nil {
			break
		}
		total += d
	}
	return total, nil
}
