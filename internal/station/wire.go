package station

import (
	"encoding/binary"

	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// EncodeMetadata frames a song's title and artist as two big-endian
// u16-length-prefixed byte strings, back to back.
func EncodeMetadata(meta track.SongMetadata) []byte {
	title, artist := []byte(meta.Title), []byte(meta.Artist)
	buf := make([]byte, 0, 4+len(title)+len(artist))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(title)))
	buf = append(buf, title...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(artist)))
	buf = append(buf, artist...)
	return buf
}

// EncodeFrames concatenates a batch of frames' raw on-wire bytes.
func EncodeFrames(frames []mp3.Frame) []byte {
	var buf []byte
	for _, f := range frames {
		buf = append(buf, f.Bytes()...)
	}
	return buf
}
