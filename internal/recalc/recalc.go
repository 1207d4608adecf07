// Package recalc serializes calculation requests behind a single pending
// slot: at most one request runs at a time, at most one waits, and a newer
// submission discards the waiting one. This gives rapid parameter edits
// latest-wins semantics without explicit abort signals; an in-flight
// calculation always runs to completion and only the newest request's
// output is ever delivered afterwards.
package recalc

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Request is one unit of work executed on the slot's worker goroutine. The
// context is canceled when the slot closes.
type Request func(ctx context.Context)

// Slot is the pending-request holder. The zero value is not usable; create
// one with NewSlot.
type Slot struct {
	mu      sync.Mutex
	pending Request

	wake   chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
}

// NewSlot starts the worker goroutine and returns the slot.
func NewSlot() *Slot {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Slot{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go s.loop(ctx)
	return s
}

// Submit hands a request to the slot. If a previous request is still
// waiting to execute it is superseded and will never run.
func (s *Slot) Submit(run Request) {
	s.mu.Lock()
	superseded := s.pending != nil
	s.pending = run
	s.mu.Unlock()

	if superseded {
		log.Debug().Msg("pending calculation superseded")
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Slot) loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			run := s.pending
			s.pending = nil
			s.mu.Unlock()
			if run == nil {
				break
			}
			run(ctx)
		}
	}
}

// Close stops the worker after any in-flight request finishes. A request
// still waiting when Close is called is discarded.
func (s *Slot) Close() {
	s.cancel()
	<-s.done
}
