// Package rawstream serves the station over a bare TCP socket: no HTTP
// framing, just the current frame batch followed by an unbroken stream of
// Frames messages. Next announcements are not forwarded; a raw listener
// has no channel for metadata.
package rawstream

import (
	"context"
	"log/slog"
	"net"

	"github.com/kaizenfm/kaizen-radio/internal/station"
)

// Server accepts raw TCP listeners and feeds each one the live stream.
type Server struct {
	current *station.Current
}

// New returns a Server sourcing frames from current.
func New(current *station.Current) *Server {
	return &Server{current: current}
}

// Run listens on addr and serves connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("rawstream: accept failed", "error", err)
			continue
		}
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	_, chunk, rx := s.current.Attach()
	if len(chunk) > 0 {
		if _, err := conn.Write(station.EncodeFrames(chunk)); err != nil {
			return
		}
	}

	for {
		msg, err := rx.Recv(ctx)
		if err != nil {
			return
		}
		frames, ok := msg.(station.FramesMessage)
		if !ok {
			continue // Next messages carry no bytes for a raw listener
		}
		if _, err := conn.Write(station.EncodeFrames(frames.Frames)); err != nil {
			return
		}
	}
}
