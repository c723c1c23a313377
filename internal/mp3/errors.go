package mp3

import "errors"

var (
	// ErrReservedVersion is returned when a frame header's version bits are
	// the reserved value.
	ErrReservedVersion = errors.New("mp3: reserved MPEG version")
	// ErrReservedLayer is returned when a frame header's layer bits are the
	// reserved value.
	ErrReservedLayer = errors.New("mp3: reserved layer")
	// ErrInvalidBitrate is returned for the "free" or "bad" bitrate indices.
	ErrInvalidBitrate = errors.New("mp3: invalid bitrate index")
	// ErrInvalidSampleRate is returned for the reserved sample rate index.
	ErrInvalidSampleRate = errors.New("mp3: invalid sample rate index")
	// ErrMalformedAudio is returned when a frame header fails to sync or
	// otherwise cannot be decoded. Iteration terminates on this error
	// rather than attempting to resynchronize.
	ErrMalformedAudio = errors.New("mp3: malformed audio frame")
	// ErrMalformedID3 is returned when an ID3v2 tag is structurally
	// inconsistent (truncated frame, size past the end of the tag, ...).
	ErrMalformedID3 = errors.New("mp3: malformed id3 tag")
)
