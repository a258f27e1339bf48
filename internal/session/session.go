// Package session owns the state of one logical bulk-edit operation: the
// reconciled record collections between the reconcile, apply, and export
// phases, and the single background worker allowed to run at a time.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/woosuite/woosync/internal/reconcile"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
)

// Outcome is the terminal event of one worker run: completed, failed with
// an error, or canceled. A canceled run is silent: callers must not
// present it as a failure.
type Outcome struct {
	Err      error
	Canceled bool
}

// Session is one bulk-edit session. The reconciled result it holds is
// owned by whichever worker produced it; a new ingestion pass replaces it
// wholesale.
type Session struct {
	id string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	result  *reconcile.Result
}

// New creates a session with a fresh identifier.
func New() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session identifier, carried into logs for correlation.
func (s *Session) ID() string {
	return s.id
}

// Result returns the reconciled collections of the last completed pass,
// or nil before the first one.
func (s *Session) Result() *reconcile.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetResult replaces the session's reconciled collections.
func (s *Session) SetResult(r *reconcile.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
}

// Run executes fn on a background worker. Only one worker may be in
// flight per session; starting another while one runs returns ErrBusy.
// The returned channel delivers exactly one Outcome. A fn error matching
// a cancellation is delivered as the silent canceled outcome.
func (s *Session) Run(ctx context.Context, name string, fn func(ctx context.Context) error) (<-chan Outcome, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, errors.ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	done := make(chan Outcome, 1)
	log := logging.With().Str("session", s.id).Str("operation", name).Logger()

	go func() {
		defer s.wg.Done()
		defer cancel()

		log.Debug().Msg("worker started")
		err := fn(runCtx)

		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()

		switch {
		case err == nil:
			log.Debug().Msg("worker completed")
			done <- Outcome{}
		case errors.IsCanceled(err):
			log.Debug().Msg("worker canceled")
			done <- Outcome{Canceled: true}
		default:
			log.Error().Err(err).Msg("worker failed")
			done <- Outcome{Err: err}
		}
	}()

	return done, nil
}

// RunSync executes fn on the worker and blocks until its outcome.
func (s *Session) RunSync(ctx context.Context, name string, fn func(ctx context.Context) error) Outcome {
	done, err := s.Run(ctx, name, fn)
	if err != nil {
		return Outcome{Err: err}
	}
	return <-done
}

// Cancel requests cooperative cancellation of the in-flight worker, if
// any. The worker observes it between records or pages and winds down;
// partial results are discarded by the caller, never presented as final.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until any in-flight worker has torn down. New input must
// not be accepted before it returns.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Running reports whether a worker is currently in flight.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
