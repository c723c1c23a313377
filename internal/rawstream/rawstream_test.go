package rawstream

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/kaizenfm/kaizen-radio/internal/bus"
	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/station"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

func TestRawStreamPrimesThenForwardsFramesOnly(t *testing.T) {
	sender := bus.NewSender[station.Message]()
	current := station.NewCurrent(sender)

	primed := []mp3.Frame{{Header: mp3.Header{0xFF, 0xFB, 0x90, 0x00}, Payload: []byte{1, 2}}}
	if err := current.PublishFrames(primed); err != nil {
		t.Fatalf("PublishFrames: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	srv := New(current)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		srv.handle(ctx, conn)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	primedBytes := station.EncodeFrames(primed)
	buf := make([]byte, len(primedBytes))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("reading primed bytes: %v", err)
	}
	if string(buf) != string(primedBytes) {
		t.Fatalf("primed bytes mismatch")
	}

	// A Next message must not appear on the wire.
	if err := current.PublishNext(track.SongMetadata{Title: "next", Artist: "someone"}); err != nil {
		t.Fatalf("PublishNext: %v", err)
	}
	more := []mp3.Frame{{Header: mp3.Header{0xFF, 0xFB, 0x90, 0x00}, Payload: []byte{9}}}
	if err := current.PublishFrames(more); err != nil {
		t.Fatalf("PublishFrames: %v", err)
	}

	moreBytes := station.EncodeFrames(more)
	buf2 := make([]byte, len(moreBytes))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadFull(conn, buf2); err != nil {
		t.Fatalf("reading second batch: %v", err)
	}
	if string(buf2) != string(moreBytes) {
		t.Fatalf("second batch mismatch")
	}
}
