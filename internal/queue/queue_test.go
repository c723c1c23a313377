package queue

import (
	"testing"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

func TestQueueFIFOAndLoop(t *testing.T) {
	q := New()
	a := &track.Track{Metadata: track.SongMetadata{Title: "a"}}
	b := &track.Track{Metadata: track.SongMetadata{Title: "b"}}
	q.PushBack(a)
	q.PushBack(b)

	got, ok := q.PopFront()
	if !ok || got != a {
		t.Fatalf("PopFront() = %v, %v; want a, true", got, ok)
	}
	q.PushBack(got) // loop it back to the end

	got, ok = q.PopFront()
	if !ok || got != b {
		t.Fatalf("PopFront() = %v, %v; want b, true", got, ok)
	}

	got, ok = q.PopFront()
	if !ok || got != a {
		t.Fatalf("PopFront() = %v, %v; want a (looped), true", got, ok)
	}
}

func TestQueueEmptyPopFront(t *testing.T) {
	q := New()
	if _, ok := q.PopFront(); ok {
		t.Fatal("expected empty queue to report ok=false")
	}
}

func TestQueuePeekBounded(t *testing.T) {
	q := New()
	for i := 0; i < 3; i++ {
		q.PushBack(&track.Track{})
	}
	if got := q.Peek(10); len(got) != 3 {
		t.Fatalf("Peek(10) returned %d items, want 3", len(got))
	}
	if got := q.Peek(2); len(got) != 2 {
		t.Fatalf("Peek(2) returned %d items, want 2", len(got))
	}
}

func TestQueuePushFront(t *testing.T) {
	q := New()
	a := &track.Track{Metadata: track.SongMetadata{Title: "a"}}
	b := &track.Track{Metadata: track.SongMetadata{Title: "b"}}
	q.PushBack(a)
	q.PushFront(b)

	got, _ := q.PopFront()
	if got != b {
		t.Fatalf("PopFront() = %v, want b", got)
	}
}
