package mp3

import (
	"bytes"
	"testing"
)

// mpegFrame builds a minimal valid MPEG-1 Layer III frame at the given
// bitrate index (9 => 128kbps) and sample rate index (0 => 44100Hz), with
// padding off, followed by size-4 zero bytes of payload.
func mpegFrame(bitrateIdx, sampleIdx byte) []byte {
	h := Header{0xFF, 0xFB, (bitrateIdx << 4) | (sampleIdx << 2), 0x00}
	size, err := h.FrameSizeBytes()
	if err != nil {
		panic(err)
	}
	out := make([]byte, size)
	copy(out, h[:])
	return out
}

func TestFrameIteratorBoundaries(t *testing.T) {
	f1 := mpegFrame(9, 0)
	f2 := mpegFrame(5, 0)
	data := append(append([]byte{}, f1...), f2...)

	it := NewFrameIterator(bytes.NewReader(data))
	var total int
	for {
		f, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		total += len(f.Bytes())
	}
	if total != len(data) {
		t.Fatalf("sum of frame sizes = %d, want %d", total, len(data))
	}
}

func TestFrameDurationAdditivity(t *testing.T) {
	f1 := mpegFrame(9, 0)
	f2 := mpegFrame(9, 0)
	data := append(append([]byte{}, f1...), f2...)

	it := NewFrameIterator(bytes.NewReader(data))
	var total float64
	count := 0
	for {
		f, ok, err := it.Next()
		if err != nil || !ok {
			break
		}
		d, err := f.Header.Duration()
		if err != nil {
			t.Fatalf("Duration: %v", err)
		}
		total += d
		count++
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	single, _ := Header(f1[:4]).Duration()
	if total != single*2 {
		t.Fatalf("total = %v, want %v", total, single*2)
	}
}

func TestMalformedSyncTerminatesIteration(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	it := NewFrameIterator(bytes.NewReader(data))
	_, ok, err := it.Next()
	if err != ErrMalformedAudio || ok {
		t.Fatalf("Next() = _, %v, %v; want _, false, ErrMalformedAudio", ok, err)
	}
}

func TestSamplesPerFrameCorrection(t *testing.T) {
	// MPEG2/2.5 Layer III frames carry 576 samples per frame.
	h := Header{0xFF, 0xF3, 0x00, 0x00} // version=2 (bits 10), layer=3 (bits 01)
	n, err := h.SamplesPerFrame()
	if err != nil {
		t.Fatalf("SamplesPerFrame: %v", err)
	}
	if n != 576 {
		t.Fatalf("got %d, want 576", n)
	}
}
