package station

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kaizenfm/kaizen-radio/internal/mp3"
	"github.com/kaizenfm/kaizen-radio/internal/queue"
)

// batchSize is the number of MPEG frames the producer groups into one
// published Frames message.
const batchSize = 128

// Runner is the producer loop: it pulls tracks from a Queue, paces their
// frames out at wall-clock rate over the bus, and loops the queue forever
// until it runs dry.
type Runner struct {
	Queue   *queue.Queue
	Current *Current
	Control <-chan Control
}

// NewRunner constructs a Runner over q, publishing through current and
// accepting skip commands from control.
func NewRunner(q *queue.Queue, current *Current, control <-chan Control) *Runner {
	return &Runner{Queue: q, Current: current, Control: control}
}

// Run drives the producer loop until ctx is cancelled or the queue runs
// dry.
func (r *Runner) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		t, ok := r.Queue.PopFront()
		if !ok {
			slog.Info("station: queue empty, stopping producer")
			return
		}

		slog.Info("now playing", "title", t.Metadata.Title, "artist", t.Metadata.Artist)
		if err := r.Current.PublishNext(t.Metadata); err != nil {
			slog.Error("station: bus closed, stopping producer", "error", err)
			return
		}

		r.playTrack(ctx, t.Frames())
		r.Queue.PushBack(t)
	}
}

// playTrack streams one track's frames in batches, pacing each batch
// against wall-clock time and watching for a skip.
func (r *Runner) playTrack(ctx context.Context, frames *mp3.FrameIterator) {
	batch := make([]mp3.Frame, 0, batchSize)
	var batchDuration float64

	for {
		f, ok, err := frames.Next()
		if err != nil || !ok {
			if err != nil {
				if errors.Is(err, mp3.ErrMalformedAudio) {
					slog.Warn("station: malformed audio frame, skipping remainder of track")
				} else {
					slog.Warn("station: frame read error, skipping remainder of track", "error", err)
				}
			}
			break
		}

		d, derr := f.Header.Duration()
		if derr != nil {
			slog.Warn("station: unparseable frame duration, skipping remainder of track")
			break
		}

		batch = append(batch, f)
		batchDuration += d

		if len(batch) == batchSize {
			if r.emitAndWait(ctx, batch, batchDuration) {
				return
			}
			batch = make([]mp3.Frame, 0, batchSize)
			batchDuration = 0
		}
	}

	if len(batch) > 0 {
		r.emitAndWait(ctx, batch, batchDuration)
	}
}

// emitAndWait publishes one frame batch and then sleeps for its wall-clock
// duration, unless a skip control or context cancellation arrives first.
// It returns true if the caller should abandon the rest of the track.
func (r *Runner) emitAndWait(ctx context.Context, batch []mp3.Frame, duration float64) bool {
	if err := r.Current.PublishFrames(batch); err != nil {
		slog.Error("station: bus closed mid-track", "error", err)
		return true
	}
	return r.controlSleep(ctx, time.Duration(duration*float64(time.Second)))
}

// controlSleep waits until d elapses or a SkipCurr control arrives,
// whichever comes first.
func (r *Runner) controlSleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case ctrl, ok := <-r.Control:
		if !ok || ctrl != SkipCurr {
			return false
		}
		r.drainControl()
		return true
	case <-ctx.Done():
		return true
	}
}

// drainControl discards any further pending skip commands so a burst of
// skips during one track doesn't carry over into the next.
func (r *Runner) drainControl() {
	for {
		select {
		case <-r.Control:
		default:
			return
		}
	}
}
