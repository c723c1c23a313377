// Package radioserver exposes the station over HTTP: a static player page,
// queue/now-playing introspection, skip controls, and a chunked live MP3
// stream.
package radioserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaizenfm/kaizen-radio/internal/queue"
	"github.com/kaizenfm/kaizen-radio/internal/station"
)

// Server is the station's HTTP frontend.
type Server struct {
	stationName string
	webDir      string
	maxClients  int32
	clients     atomic.Int32

	queue   *queue.Queue
	current *station.Current
	control chan<- station.Control

	engine *gin.Engine
}

// New builds a Server. control is the skip-command channel shared with the
// producer loop; sends to it never block (they're dropped if the channel
// is full, since a pending skip already covers any more that pile up).
func New(stationName, webDir string, maxClients int, q *queue.Queue, current *station.Current, control chan<- station.Control) *Server {
	s := &Server{
		stationName: stationName,
		webDir:      webDir,
		maxClients:  int32(maxClients),
		queue:       q,
		current:     current,
		control:     control,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(securityHeaders())

	r.GET("/", s.index)
	r.GET("/queue", s.queueHandler)
	r.GET("/now", s.now)
	r.GET("/skip/next", s.skipNext)
	r.GET("/skip/curr", s.skipCurr)
	r.GET("/stream", s.stream)
	r.NoRoute(notFound)

	s.engine = r
	return s
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // streaming responses run indefinitely
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Invalid path")
}

func (s *Server) index(c *gin.Context) {
	c.File(filepath.Join(s.webDir, "index.html"))
}

func (s *Server) queueHandler(c *gin.Context) {
	tracks := s.queue.Peek(5)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	for _, t := range tracks {
		c.String(http.StatusOK, "%s\n%s\n", t.Metadata.Artist, t.Metadata.Title)
	}
}

func (s *Server) now(c *gin.Context) {
	song, _ := s.current.Snapshot()
	if song == nil {
		c.String(http.StatusBadRequest, "not playing")
		return
	}
	c.String(http.StatusOK, "%s\n%s", song.Title, song.Artist)
}

func (s *Server) skipNext(c *gin.Context) {
	if _, ok := s.queue.PopFront(); !ok {
		c.String(http.StatusBadRequest, "Empty")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) skipCurr(c *gin.Context) {
	select {
	case s.control <- station.SkipCurr:
	default:
		// a skip is already pending; nothing more to do
	}
	c.String(http.StatusOK, "OK")
}

func (s *Server) stream(c *gin.Context) {
	if s.clients.Load() >= s.maxClients {
		c.String(http.StatusServiceUnavailable, "too many listeners")
		return
	}
	s.clients.Add(1)
	defer s.clients.Add(-1)

	song, chunk, rx := s.current.Attach()

	c.Header("Content-Type", "application/x-mp3+info")
	c.Header("Cache-Control", "no-cache, no-store")
	c.Header("X-Station-Name", s.stationName)

	primed := false
	c.Stream(func(w io.Writer) bool {
		if !primed {
			primed = true
			if song != nil {
				if _, err := w.Write(station.EncodeMetadata(*song)); err != nil {
					return false
				}
			}
			if len(chunk) > 0 {
				if _, err := w.Write(station.EncodeFrames(chunk)); err != nil {
					return false
				}
			}
			return true
		}

		msg, err := rx.Recv(c.Request.Context())
		if err != nil {
			return false
		}
		switch m := msg.(type) {
		case station.NextMessage:
			if _, err := w.Write(station.EncodeMetadata(m.Song)); err != nil {
				return false
			}
		case station.FramesMessage:
			if _, err := w.Write(station.EncodeFrames(m.Frames)); err != nil {
				return false
			}
		default:
			slog.Warn("radioserver: unknown message type on stream")
		}
		return true
	})
}
