// Package queue implements the station's forever-looping track deque.
package queue

import (
	"sync"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// Queue is a mutex-protected double-ended queue of loaded tracks. The
// producer loop pops from the front and, once a track finishes playing,
// pushes it back onto the end so the station loops forever.
type Queue struct {
	mu    sync.Mutex
	items []*track.Track
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// PopFront removes and returns the first track, or ok=false if empty.
func (q *Queue) PopFront() (*track.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// PushBack appends t to the end of the queue.
func (q *Queue) PushBack(t *track.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, t)
}

// PushFront prepends t to the queue.
func (q *Queue) PushFront(t *track.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]*track.Track{t}, q.items...)
}

// Peek returns a copy of up to n tracks from the front, without removing
// them.
func (q *Queue) Peek(n int) []*track.Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.items) {
		n = len(q.items)
	}
	out := make([]*track.Track, n)
	copy(out, q.items[:n])
	return out
}

// Len reports the current queue length.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
