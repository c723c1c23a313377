package mp3

import (
	"encoding/binary"
	"unicode/utf16"
)

// ID3v2 header flag bits.
const (
	FlagUnsync       byte = 0x80
	FlagExtendedHdr  byte = 0x40
	FlagExperimental byte = 0x20
	FlagFooter       byte = 0x10
)

// Text encodings as used by ID3v2 text frames.
const (
	EncodingLatin1   byte = 0
	EncodingUTF16BOM byte = 1
	EncodingUTF16BE  byte = 2
	EncodingUTF8     byte = 3
)

var titleFrameID = [4]byte{'T', 'I', 'T', '2'}
var artistFrameID = [4]byte{'T', 'P', 'E', '1'}

// TagFrame is an opaque ID3v2 frame: an ID and raw frame body. Only TIT2
// and TPE1 are given semantic accessors; every other frame round-trips
// unchanged.
type TagFrame struct {
	ID    [4]byte
	Flags [2]byte
	Data  []byte
}

// Tag is a decoded ID3v2 header plus its frames.
type Tag struct {
	MajorVersion byte
	Revision     byte
	Flags        byte
	Frames       []TagFrame
}

// NewTag builds a minimal ID3v2.4 tag carrying only a title and artist
// frame, both written with UTF-16BE text.
func NewTag(title, artist string) *Tag {
	t := &Tag{MajorVersion: 4, Revision: 0}
	t.SetTitle(title)
	t.SetArtist(artist)
	return t
}

// decodeSyncsafe32 decodes a 4-byte syncsafe integer (7 significant bits
// per byte, as used for ID3v2 tag sizes).
func decodeSyncsafe32(b [4]byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

func encodeSyncsafe32(v uint32) [4]byte {
	return [4]byte{
		byte((v >> 21) & 0x7F),
		byte((v >> 14) & 0x7F),
		byte((v >> 7) & 0x7F),
		byte(v & 0x7F),
	}
}

// ParseTag reads an ID3v2 tag from the start of data. If data does not
// begin with the "ID3" magic, it returns (nil, 0, nil): there is no tag to
// skip. consumed is the total number of bytes occupied by the tag,
// including its header.
func ParseTag(data []byte) (tag *Tag, consumed int, err error) {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return nil, 0, nil
	}

	major, rev, flags := data[3], data[4], data[5]
	var sizeBytes [4]byte
	copy(sizeBytes[:], data[6:10])
	size := decodeSyncsafe32(sizeBytes)

	end := 10 + int(size)
	if end > len(data) {
		return nil, 0, ErrMalformedID3
	}

	pos := 10
	if flags&FlagExtendedHdr != 0 {
		if pos+4 > end {
			return nil, 0, ErrMalformedID3
		}
		extSize := binary.BigEndian.Uint32(data[pos : pos+4])
		if extSize < 4 || pos+int(extSize) > end {
			return nil, 0, ErrMalformedID3
		}
		pos += int(extSize)
	}

	var frames []TagFrame
	for pos+10 <= end {
		var id [4]byte
		copy(id[:], data[pos:pos+4])
		if id == ([4]byte{}) {
			break // padding
		}
		fsize := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		var fflags [2]byte
		copy(fflags[:], data[pos+8:pos+10])

		fstart := pos + 10
		fend := fstart + int(fsize)
		if fend > end {
			return nil, 0, ErrMalformedID3
		}
		fdata := make([]byte, fsize)
		copy(fdata, data[fstart:fend])
		frames = append(frames, TagFrame{ID: id, Flags: fflags, Data: fdata})
		pos = fend
	}

	return &Tag{MajorVersion: major, Revision: rev, Flags: flags, Frames: frames}, end, nil
}

// Bytes serializes the tag back to its on-wire ID3v2 form.
func (t *Tag) Bytes() []byte {
	var body []byte
	for _, f := range t.Frames {
		var sizeB [4]byte
		binary.BigEndian.PutUint32(sizeB[:], uint32(len(f.Data)))
		body = append(body, f.ID[:]...)
		body = append(body, sizeB[:]...)
		body = append(body, f.Flags[:]...)
		body = append(body, f.Data...)
	}

	out := make([]byte, 0, 10+len(body))
	out = append(out, 'I', 'D', '3', t.MajorVersion, t.Revision, t.Flags)
	szB := encodeSyncsafe32(uint32(len(body)))
	out = append(out, szB[:]...)
	out = append(out, body...)
	return out
}

// Title returns the TIT2 frame's decoded text, if present.
func (t *Tag) Title() (string, bool) { return t.frameText(titleFrameID) }

// Artist returns the TPE1 frame's decoded text, if present.
func (t *Tag) Artist() (string, bool) { return t.frameText(artistFrameID) }

func (t *Tag) frameText(id [4]byte) (string, bool) {
	for _, f := range t.Frames {
		if f.ID == id {
			s, err := DecodeText(f.Data)
			if err != nil {
				return "", false
			}
			return s, true
		}
	}
	return "", false
}

// SetTitle upserts the TIT2 frame.
func (t *Tag) SetTitle(s string) { t.setFrame(titleFrameID, s) }

// SetArtist upserts the TPE1 frame.
func (t *Tag) SetArtist(s string) { t.setFrame(artistFrameID, s) }

func (t *Tag) setFrame(id [4]byte, s string) {
	data := EncodeText(s)
	for i := range t.Frames {
		if t.Frames[i].ID == id {
			t.Frames[i].Data = data
			return
		}
	}
	t.Frames = append(t.Frames, TagFrame{ID: id, Data: data})
}

// DecodeText decodes an ID3v2 text frame body: a one-byte encoding marker
// followed by the (possibly null-terminated) text.
func DecodeText(data []byte) (string, error) {
	if len(data) < 1 {
		return "", ErrMalformedID3
	}
	enc, body := data[0], data[1:]

	switch enc {
	case EncodingLatin1:
		return decodeLatin1(trimTerminator(body, 1)), nil
	case EncodingUTF8:
		return string(trimTerminator(body, 1)), nil
	case EncodingUTF16BE:
		return decodeUTF16(trimTerminator(body, 2), binary.BigEndian)
	case EncodingUTF16BOM:
		if len(body) < 2 {
			return "", ErrMalformedID3
		}
		bom, rest := body[0:2], trimTerminator(body[2:], 2)
		switch {
		case bom[0] == 0xFF && bom[1] == 0xFE:
			return decodeUTF16(rest, binary.LittleEndian)
		case bom[0] == 0xFE && bom[1] == 0xFF:
			return decodeUTF16(rest, binary.BigEndian)
		default:
			return "", ErrMalformedID3
		}
	default:
		return "", ErrMalformedID3
	}
}

// EncodeText encodes s as an ID3v2 text frame body using UTF-16BE, the
// encoding this package always writes.
func EncodeText(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 1+2*len(units)+2)
	buf = append(buf, EncodingUTF16BE)
	for _, u := range units {
		buf = append(buf, byte(u>>8), byte(u))
	}
	buf = append(buf, 0, 0)
	return buf
}

func decodeLatin1(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}

type byteOrder interface {
	Uint16([]byte) uint16
}

func decodeUTF16(b []byte, order byteOrder) (string, error) {
	if len(b)%2 != 0 {
		return "", ErrMalformedID3
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = order.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

func trimTerminator(b []byte, width int) []byte {
	if width == 1 {
		if n := len(b); n > 0 && b[n-1] == 0 {
			return b[:n-1]
		}
		return b
	}
	if n := len(b); n >= 2 && b[n-2] == 0 && b[n-1] == 0 {
		return b[:n-2]
	}
	return b
}
