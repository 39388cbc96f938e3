package breaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// Clock returns the current time. It is injected so that the OPEN to
// HALF_OPEN transition can be tested without sleeping.
type Clock func() time.Time

// Breaker guards calls to an unreliable dependency. It never runs the call
// itself: callers ask CanExecute, run the call, then report the outcome with
// OnSuccess or OnFailure. All methods are safe for concurrent use.
type Breaker struct {
	name         string
	threshold    int
	resetTimeout time.Duration
	clock        Clock

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

type Option func(*Breaker)

func WithClock(clock Clock) Option {
	return func(b *Breaker) {
		b.clock = clock
	}
}

// WithName sets the name used in state change logs.
func WithName(name string) Option {
	return func(b *Breaker) {
		b.name = name
	}
}

func New(threshold int, resetTimeout time.Duration, options ...Option) (*Breaker, error) {
	if threshold < 1 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "failure threshold must be at least 1", goerr.V("threshold", threshold))
	}
	if resetTimeout < 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "reset timeout must not be negative", goerr.V("resetTimeout", resetTimeout))
	}

	b := &Breaker{
		name:         "default",
		threshold:    threshold,
		resetTimeout: resetTimeout,
		clock:        time.Now,
		state:        StateClosed,
	}
	for _, opt := range options {
		opt(b)
	}

	return b, nil
}

// CanExecute reports whether a call may go through. While OPEN, the first call
// after the reset timeout moves the breaker to HALF_OPEN and is allowed as the
// probe.
func (x *Breaker) CanExecute() bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	switch x.state {
	case StateOpen:
		if x.clock().Sub(x.openedAt) < x.resetTimeout {
			return false
		}
		x.setState(StateHalfOpen)
		return true

	default:
		return true
	}
}

func (x *Breaker) OnSuccess() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.failures = 0
	if x.state != StateClosed {
		x.setState(StateClosed)
	}
}

func (x *Breaker) OnFailure() {
	x.mu.Lock()
	defer x.mu.Unlock()

	switch x.state {
	case StateHalfOpen:
		x.open()

	case StateClosed:
		x.failures++
		if x.failures >= x.threshold {
			x.open()
		}

	case StateOpen:
		// Failures reported while OPEN come from calls started before the
		// breaker tripped; they do not extend the reset window.
	}
}

func (x *Breaker) State() State {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// Failures returns the consecutive-failure counter.
func (x *Breaker) Failures() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.failures
}

func (x *Breaker) open() {
	x.openedAt = x.clock()
	x.setState(StateOpen)
}

func (x *Breaker) setState(next State) {
	logging.Default().Info("circuit breaker state changed",
		slog.String("name", x.name),
		slog.String("from", string(x.state)),
		slog.String("to", string(next)),
		slog.Int("failures", x.failures),
	)
	x.state = next
}
