package station

import (
	"context"
	"testing"
	"time"

	"github.com/kaizenfm/kaizen-radio/internal/bus"
	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/queue"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

func silentFrame() []byte {
	h := mp3.Header{0xFF, 0xFB, 0x90, 0x00} // V1/L3, 128kbps, 44100Hz
	size, _ := h.FrameSizeBytes()
	out := make([]byte, size)
	copy(out, h[:])
	return out
}

func makeTrack(t *testing.T, title string, frameCount int) *track.Track {
	t.Helper()
	var raw []byte
	for i := 0; i < frameCount; i++ {
		raw = append(raw, silentFrame()...)
	}
	tr, err := track.Load(track.SongMetadata{Title: title}, raw)
	if err != nil {
		t.Fatalf("track.Load: %v", err)
	}
	return tr
}

func TestRunnerLoopsAndPublishesNextThenFrames(t *testing.T) {
	q := queue.New()
	q.PushBack(makeTrack(t, "song-a", 1))

	sender := bus.NewSender[Message]()
	current := NewCurrent(sender)
	control := make(chan Control)
	rx := sender.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	r := NewRunner(q, current, control)
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	msg, err := rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv Next: %v", err)
	}
	next, ok := msg.(NextMessage)
	if !ok || next.Song.Title != "song-a" {
		t.Fatalf("first message = %#v, want NextMessage{song-a}", msg)
	}

	msg, err = rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv Frames: %v", err)
	}
	if _, ok := msg.(FramesMessage); !ok {
		t.Fatalf("second message = %#v, want FramesMessage", msg)
	}

	// Once the track ends it is pushed back and played again.
	msg, err = rx.Recv(ctx)
	if err != nil {
		t.Fatalf("Recv looped Next: %v", err)
	}
	next, ok = msg.(NextMessage)
	if !ok || next.Song.Title != "song-a" {
		t.Fatalf("third message = %#v, want NextMessage{song-a}", msg)
	}

	<-ctx.Done()
	<-done
}

func TestRunnerSkipCurrAbandonsTrack(t *testing.T) {
	q := queue.New()
	q.PushBack(makeTrack(t, "long-song", batchSize+10))
	q.PushBack(makeTrack(t, "next-song", 1))

	sender := bus.NewSender[Message]()
	current := NewCurrent(sender)
	control := make(chan Control, 1)
	rx := sender.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	r := NewRunner(q, current, control)
	go r.Run(ctx)

	// Consume the Next + first Frames batch for long-song, then skip.
	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if _, ok := msg.(FramesMessage); ok {
			break
		}
	}
	control <- SkipCurr

	// Expect the next announced song to be next-song, not a second batch
	// of long-song.
	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if _, ok := msg.(FramesMessage); ok {
			t.Fatal("got another Frames batch of long-song after the skip")
		}
		if next, ok := msg.(NextMessage); ok {
			if next.Song.Title != "next-song" {
				t.Fatalf("got next song %q, want next-song", next.Song.Title)
			}
			return
		}
	}
}
