package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

// State is what a subscriber can observe.
type State struct {
	// Analysis is the last snapshot fetched for the current analysis ID, or
	// nil when nothing has been fetched yet.
	Analysis *model.AnalysisSnapshot
	// IsTerminal is true once Analysis has a terminal status.
	IsTerminal bool
	// IsLoading is true only while a fetch is in flight.
	IsLoading bool
}

// Subscription polls one analysis at a time. At most one fetch is in flight:
// changing the analysis ID or disabling the subscription cancels the current
// cycle, including its request, and responses of a cancelled cycle are
// discarded. Fetch failures are logged and retried on the next tick.
type Subscription struct {
	client  *Client
	baseCtx context.Context

	// notifyMu serializes onChange calls and guards onChange. It is always
	// taken before mu.
	notifyMu sync.Mutex
	onChange func(State)

	mu         sync.Mutex
	id         types.AnalysisID
	enabled    bool
	closed     bool
	state      State
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// Subscribe starts tracking id. onChange, if not nil, is called with a copy of
// the state after every change. Calls are serialized and always carry the
// latest state of the current analysis ID; onChange must not block for long
// and must not call back into the Subscription.
func (c *Client) Subscribe(ctx context.Context, id types.AnalysisID, enabled bool, onChange func(State)) *Subscription {
	s := &Subscription{
		client:   c,
		baseCtx:  ctx,
		onChange: onChange,
		id:       id,
		enabled:  enabled,
	}

	s.mu.Lock()
	s.restartLocked()
	s.mu.Unlock()

	return s
}

func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetAnalysisID switches to another analysis. The state is reset before the
// first fetch of the new ID resolves.
func (s *Subscription) SetAnalysisID(id types.AnalysisID) {
	s.mu.Lock()
	if s.closed || id == s.id {
		s.mu.Unlock()
		return
	}
	s.id = id
	s.state = State{}
	s.restartLocked()
	gen := s.generation
	s.mu.Unlock()

	s.notify(gen)
}

func (s *Subscription) SetEnabled(enabled bool) {
	s.mu.Lock()
	if s.closed || enabled == s.enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = enabled
	s.restartLocked()
	gen := s.generation
	s.mu.Unlock()

	s.notify(gen)
}

// Close stops polling and waits for the running cycle to exit. No state
// change is published after Close returns.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()

	// waits out a delivery that passed its generation check before Close
	s.notifyMu.Lock()
	s.onChange = nil
	s.notifyMu.Unlock()
}

// restartLocked cancels the running cycle and starts a new one if polling is
// wanted. s.mu must be held.
func (s *Subscription) restartLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state.IsLoading = false

	if s.closed || !s.enabled || s.id == "" || s.state.IsTerminal {
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(ctx, s.generation, s.id)
}

func (s *Subscription) run(ctx context.Context, gen uint64, id types.AnalysisID) {
	defer s.wg.Done()
	logger := logging.From(ctx).With(slog.String("analysis_id", id.String()))

	for {
		if !s.update(gen, func(st *State) { st.IsLoading = true }) {
			return
		}

		snapshot, err := s.client.Fetch(ctx, id)
		if ctx.Err() != nil {
			// no-op for a superseded cycle; clears loading when only the
			// subscriber's context was cancelled
			s.update(gen, func(st *State) { st.IsLoading = false })
			return
		}

		if err != nil {
			logger.Debug("fetch failed, retrying", slog.Any("error", err))
			if !s.update(gen, func(st *State) { st.IsLoading = false }) {
				return
			}
		} else {
			applied := s.update(gen, func(st *State) {
				st.IsLoading = false
				st.Analysis = snapshot
				st.IsTerminal = snapshot.IsTerminal()
			})
			if !applied {
				return
			}
			if snapshot.IsTerminal() {
				logger.Debug("analysis is terminal, polling stopped", slog.String("status", string(snapshot.Status)))
				return
			}
		}

		timer := time.NewTimer(s.client.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// update applies fn if gen is still the current cycle and publishes the new
// state. It returns false when the cycle is stale.
func (s *Subscription) update(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	s.mu.Unlock()

	s.notify(gen)
	return true
}

// notify hands the current state to onChange unless gen has been superseded
// in the meantime. The state is read under notifyMu so a delivery can never
// overtake a newer one.
func (s *Subscription) notify(gen uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if s.onChange == nil {
		return
	}

	s.mu.Lock()
	current := gen == s.generation && !s.closed
	state := s.state
	s.mu.Unlock()

	if current {
		s.onChange(state)
	}
}
