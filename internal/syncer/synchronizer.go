// Package syncer implements the resource synchronization unit: one
// fetch/validate/transform/store life cycle per upstream resource, with a
// deadline on identity resolution and stale-response protection across
// overlapping fetches.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/identity"
	"github.com/fundalabs/dashboard-api/internal/observability"
)

// timeoutMessage is the user-facing message when identity never resolves.
const timeoutMessage = "Timeout: unable to resolve identity"

// Config parametrizes a Synchronizer for one resource kind.
type Config[R, V any] struct {
	// Resource labels logs, metrics and events.
	Resource string

	// Fetch retrieves and envelope-validates the raw payload.
	Fetch func(ctx context.Context, id string) (R, error)

	// Transform is the pure raw-to-view-model mapping.
	Transform func(raw R) V

	// Default produces the empty value held whenever the state is not
	// Ready. A fresh value per call keeps slices unshared.
	Default func() V

	// IdentityTimeout bounds how long the unit waits for a valid identity
	// before failing closed. Zero disables the guard.
	IdentityTimeout time.Duration

	// Notify, when set, receives every state transition. Called without
	// the internal lock held.
	Notify func(Event)
}

// Synchronizer owns the SyncState for one resource kind.
type Synchronizer[R, V any] struct {
	cfg    Config[R, V]
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    State[V]
	identity string
	epoch    int64
	disposed bool
	timer    *time.Timer
	timedOut bool
}

// New builds a Synchronizer in the Idle state holding the resource default.
func New[R, V any](cfg Config[R, V], logger zerolog.Logger) *Synchronizer[R, V] {
	return &Synchronizer[R, V]{
		cfg:    cfg,
		logger: logger.With().Str("component", "synchronizer").Str("resource", cfg.Resource).Logger(),
		now:    time.Now,
		state: State[V]{
			Status: StatusIdle,
			Value:  cfg.Default(),
		},
	}
}

// State returns a copy of the current state.
func (s *Synchronizer[R, V]) State() State[V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fetch runs one full cycle for the given identity and returns the resulting
// state. Errors never escape: every failure is folded into the state.
func (s *Synchronizer[R, V]) Fetch(ctx context.Context, id string) State[V] {
	s.mu.Lock()
	if s.disposed {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.identity = id

	if !identity.Valid(id) {
		// Advancing the epoch invalidates any in-flight fetch so a late
		// response cannot overwrite this error with data for an identity
		// that is no longer valid.
		s.epoch++
		s.state = State[V]{
			Status:       StatusError,
			Value:        s.cfg.Default(),
			ErrorMessage: identity.ErrInvalidMessage,
		}
		s.armTimeoutLocked()
		st := s.state
		ev := s.eventLocked()
		s.mu.Unlock()

		observability.SyncFetches().WithLabelValues(s.cfg.Resource, "invalid_identity").Inc()
		s.notify(ev)
		return st
	}

	s.cancelTimeoutLocked()
	s.epoch++
	token := s.epoch
	// Value keeps the previous snapshot while fetching so a refresh does
	// not flicker back to the empty state.
	s.state.Status = StatusFetching
	s.state.ErrorMessage = ""
	ev := s.eventLocked()
	s.mu.Unlock()

	s.notify(ev)

	start := time.Now()
	raw, err := s.cfg.Fetch(ctx, id)
	var value V
	if err == nil {
		value, err = s.transform(raw)
	}
	observability.SyncLatency().WithLabelValues(s.cfg.Resource).Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if s.disposed || token != s.epoch {
		observability.SyncStaleDrops().WithLabelValues(s.cfg.Resource).Inc()
		s.logger.Debug().Int64("token", token).Int64("epoch", s.epoch).Msg("dropped stale response")
		st := s.state
		s.mu.Unlock()
		return st
	}

	if err != nil {
		s.state = State[V]{
			Status:       StatusError,
			Value:        s.cfg.Default(),
			ErrorMessage: err.Error(),
		}
		observability.SyncFetches().WithLabelValues(s.cfg.Resource, "error").Inc()
		s.logger.Warn().Err(err).Msg("fetch cycle failed")
	} else {
		fetchedAt := s.now()
		s.state = State[V]{
			Status:        StatusReady,
			Value:         value,
			LastFetchedAt: &fetchedAt,
		}
		observability.SyncFetches().WithLabelValues(s.cfg.Resource, "success").Inc()
	}

	st := s.state
	ev = s.eventLocked()
	s.mu.Unlock()

	s.notify(ev)
	return st
}

// Refresh re-runs the cycle against the identity of the last Fetch.
func (s *Synchronizer[R, V]) Refresh(ctx context.Context) State[V] {
	s.mu.Lock()
	id := s.identity
	s.mu.Unlock()
	return s.Fetch(ctx, id)
}

// Dispose cancels the identity deadline and marks the unit inert. Responses
// that arrive after disposal are dropped by the epoch check.
func (s *Synchronizer[R, V]) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.cancelTimeoutLocked()
}

// transform applies the pure mapping with a backstop: a panic during
// derivation becomes a state error instead of taking the process down.
func (s *Synchronizer[R, V]) transform(raw R) (value V, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("transform failed: %v", rec)
		}
	}()
	return s.cfg.Transform(raw), nil
}

// armTimeoutLocked starts the one-shot identity deadline. The guard fires at
// most once over the unit's lifetime.
func (s *Synchronizer[R, V]) armTimeoutLocked() {
	if s.timedOut || s.timer != nil || s.cfg.IdentityTimeout <= 0 {
		return
	}
	s.timer = time.AfterFunc(s.cfg.IdentityTimeout, s.onIdentityTimeout)
}

func (s *Synchronizer[R, V]) cancelTimeoutLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Synchronizer[R, V]) onIdentityTimeout() {
	s.mu.Lock()
	s.timer = nil
	if s.disposed || s.timedOut || identity.Valid(s.identity) {
		s.mu.Unlock()
		return
	}
	s.timedOut = true
	s.state = State[V]{
		Status:       StatusTimedOut,
		Value:        s.cfg.Default(),
		ErrorMessage: timeoutMessage,
	}
	ev := s.eventLocked()
	s.mu.Unlock()

	observability.IdentityTimeouts().WithLabelValues(s.cfg.Resource).Inc()
	s.logger.Warn().Msg("identity never resolved before deadline")
	s.notify(ev)
}

func (s *Synchronizer[R, V]) eventLocked() Event {
	return Event{
		Resource:     s.cfg.Resource,
		Status:       s.state.Status,
		ErrorMessage: s.state.ErrorMessage,
		At:           s.now(),
	}
}

func (s *Synchronizer[R, V]) notify(ev Event) {
	if s.cfg.Notify != nil {
		s.cfg.Notify(ev)
	}
}
