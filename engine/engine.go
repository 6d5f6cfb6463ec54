/*
engine.go - Engine construction and policy knobs

PURPOSE:
  Bundles the repository, clock, logger and failure policy behind one value.
  All gates are methods on *Engine; construction is the only place
  dependencies are wired.

FAILURE POLICY:
  Historically two reads (active medical leave, permission overlap) swallowed
  repository errors and answered as if nothing was found, while every other
  gate propagated the error. A transient read failure could therefore
  silently grant access. The policy is now explicit and engine-wide:

    FailClosed (default)  repository errors on safety-relevant reads
                          propagate; the operation is not granted.
    FailOpen              legacy behavior; the error is logged and the read
                          answers "nothing found".

USAGE:
  eng := engine.New(repo,
      engine.WithClock(engine.FixedClock{Day: engine.NewDate(2024, 1, 10)}),
      engine.WithLogger(logger),
  )
  result, err := eng.CanCreateContract(ctx, "emp-1")
*/
package engine

import (
	"github.com/sirupsen/logrus"
)

// FailMode decides what safety-relevant reads do when the repository fails.
type FailMode int

const (
	// FailClosed propagates repository errors; nothing is granted on a
	// failed read.
	FailClosed FailMode = iota

	// FailOpen logs the repository error and treats the read as "nothing
	// found". Preserved for parity with historical behavior; not
	// recommended.
	FailOpen
)

// Engine evaluates eligibility gates against a read-only record repository.
type Engine struct {
	repo     Repository
	clock    Clock
	log      logrus.FieldLogger
	failMode FailMode
}

type Option func(*Engine)

// WithClock replaces the wall clock. Tests use FixedClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger replaces the default logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithFailMode sets the failure policy for safety-relevant reads.
func WithFailMode(m FailMode) Option {
	return func(e *Engine) { e.failMode = m }
}

// New creates an engine over the given repository. Defaults: system clock,
// logrus standard logger, fail-closed reads.
func New(repo Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		clock:    SystemClock{},
		log:      logrus.StandardLogger(),
		failMode: FailClosed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the engine's current day.
func (e *Engine) Today() Date { return e.clock.Today() }
