package headless

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"smartspace/internal/api"
)

// Subscription delivers the redraws of one headless widget.
//
// It keeps a single pending event: a redraw that arrives before the previous
// one was taken replaces it. Cancel detaches the subscription from the
// widget's view synchronously and may be called any number of times.
type Subscription struct {
	id  string
	key string

	isBound func() bool
	detach  func(*Subscription)

	mu      sync.Mutex
	pending *RenderEvent
	started bool
	closed  bool
	err     error
	void    bool

	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(key string, isBound func() bool, detach func(*Subscription)) *Subscription {
	return &Subscription{
		id:      uuid.New().String(),
		key:     key,
		isBound: isBound,
		detach:  detach,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// newVoidSubscription returns a subscription that completed before it
// started. It never delivers an event.
func newVoidSubscription(key string) *Subscription {
	s := newSubscription(key, nil, nil)
	s.void = true
	s.closeDetached(api.ErrSubscriptionClosed)
	return s
}

// ID uniquely identifies the subscription in log output.
func (s *Subscription) ID() string {
	return s.id
}

// Key returns the widget key the subscription belongs to.
func (s *Subscription) Key() string {
	return s.key
}

// Void reports whether the subscription was handed out for an unbound
// widget and therefore never had a chance to deliver anything.
func (s *Subscription) Void() bool {
	return s.void
}

// Done is closed once the subscription ends for any reason.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the subscription ended, or nil while it is open.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		return nil
	}
	return s.err
}

// Next blocks until the next render event, the end of the subscription or
// the cancellation of ctx.
//
// The first call verifies that the widget is still bound and fails with
// api.ErrWidgetNotBound if it is not. A cancelled or void subscription
// returns api.ErrSubscriptionClosed.
func (s *Subscription) Next(ctx context.Context) (RenderEvent, error) {
	s.mu.Lock()
	first := !s.started
	s.started = true
	closed := s.closed
	s.mu.Unlock()

	// isBound takes the widget lock, so it must not run under s.mu
	if first && !closed && s.isBound != nil && !s.isBound() {
		s.close(api.ErrWidgetNotBound)
		return RenderEvent{}, api.ErrWidgetNotBound
	}

	s.mu.Lock()
	for {
		if s.closed {
			err := s.err
			s.mu.Unlock()
			return RenderEvent{}, err
		}
		if s.pending != nil {
			event := *s.pending
			s.pending = nil
			s.mu.Unlock()
			return event, nil
		}
		s.mu.Unlock()

		select {
		case <-s.signal:
		case <-s.done:
		case <-ctx.Done():
			return RenderEvent{}, ctx.Err()
		}
		s.mu.Lock()
	}
}

// Cancel ends the subscription and detaches it from the widget.
func (s *Subscription) Cancel() {
	s.close(api.ErrSubscriptionClosed)
}

func (s *Subscription) offer(event RenderEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = &event
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *Subscription) close(err error) {
	s.closeDetached(err)
	if s.detach != nil {
		s.detach(s)
	}
}

// closeDetached ends the subscription without touching the widget. Used when
// the widget already dropped it.
func (s *Subscription) closeDetached(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.err = err
		s.pending = nil
		s.mu.Unlock()
		close(s.done)
	})
}
