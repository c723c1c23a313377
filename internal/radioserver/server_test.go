package radioserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaizenfm/kaizen-radio/internal/bus"
	"github.com/kaizenfm/kaizen-radio/internal/queue"
	"github.com/kaizenfm/kaizen-radio/internal/station"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	q := queue.New()
	sender := bus.NewSender[station.Message]()
	current := station.NewCurrent(sender)
	control := make(chan station.Control, 1)
	return New("Test Radio", t.TempDir(), 10, q, current, control)
}

func TestNowBeforeAnyTrackIs400(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/now", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNowReflectsCurrentSong(t *testing.T) {
	s := newTestServer(t)
	if err := s.current.PublishNext(track.SongMetadata{Title: "T", Artist: "A"}); err != nil {
		t.Fatalf("PublishNext: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/now", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "T\nA" {
		t.Fatalf("body = %q, want %q", got, "T\nA")
	}
}

func TestSkipNextOnEmptyQueueIs400(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/skip/next", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Body.String(); got != "Empty" {
		t.Fatalf("body = %q, want %q", got, "Empty")
	}
}

func TestSkipCurrDoesNotBlockWhenFull(t *testing.T) {
	s := newTestServer(t)
	s.control <- station.SkipCurr // fill the buffered channel

	req := httptest.NewRequest(http.MethodGet, "/skip/curr", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/now", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing X-Content-Type-Options header")
	}
}
