package tx

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stellar/go-stellar-sdk/support/log"
)

// Observer sees every rendering a stream delivers, on the run's goroutine, before the caller does.
type Observer func(runID string, r Rendering)

// Stream is a cancellable sequence of progress renderings ending with one terminal rendering.
type Stream struct {
	id        string
	snapshots chan Rendering
	done      chan struct{}
	cancel    context.CancelFunc

	mu        sync.Mutex
	cancelled bool
}

// Run starts stage on its own goroutine. Renderings are delivered over an unbuffered channel, so the run
// advances at the pace of the consumer. The channel is closed when the run returns.
func Run[A any](ctx context.Context, initial Snapshot[A], stage Stage[A], observers ...Observer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		id:        uuid.NewString(),
		snapshots: make(chan Rendering),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
	ctx = log.Set(ctx, log.Ctx(ctx).WithField("run_id", s.id))

	go func() {
		defer close(s.done)
		defer close(s.snapshots)
		defer cancel()

		if _, err := stage(ctx, initial, s.emitter(ctx, observers)); err != nil {
			log.Ctx(ctx).Debugf("transaction run stopped: %v", err)
		}
	}()

	return s
}

func (s *Stream) emitter(ctx context.Context, observers []Observer) Emitter {
	return func(r Rendering) {
		if s.isCancelled() || ctx.Err() != nil {
			return
		}
		for _, observe := range observers {
			observe(s.id, r)
		}
		select {
		case s.snapshots <- r:
		case <-ctx.Done():
		}
	}
}

func (s *Stream) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// ID identifies the run in logs and in the history table.
func (s *Stream) ID() string {
	return s.id
}

func (s *Stream) Snapshots() <-chan Rendering {
	return s.snapshots
}

// Done is closed once the run has returned and the snapshots channel is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Cancel stops observing the run: pending polls stop and no further rendering is delivered. A wallet
// broadcast already requested is not aborted. Cancel does not wait for the run to return.
func (s *Stream) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	s.cancel()
}

// Collect drains the stream and returns every rendering it delivered.
func (s *Stream) Collect() []Rendering {
	var renderings []Rendering
	for r := range s.snapshots {
		renderings = append(renderings, r)
	}
	return renderings
}
