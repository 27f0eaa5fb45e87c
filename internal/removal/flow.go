// Package removal runs the two step "pick an expense to delete" exchange:
// candidates are listed, then the flow waits for a numbered selection from
// the same user in the same channel.
package removal

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
)

type State int

const (
	Listed State = iota
	AwaitingSelection
	Completed
	Abandoned
)

func (s State) String() string {
	switch s {
	case Listed:
		return "listed"
	case AwaitingSelection:
		return "awaiting_selection"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

var (
	ErrTimeout    = errors.New("removal: no selection received in time")
	ErrSuperseded = errors.New("removal: replaced by a newer removal")
	ErrCancelled  = errors.New("removal: cancelled")
	ErrNotPending = errors.New("removal: flow is not pending")
)

// Key scopes a flow to one user in one channel.
type Key struct {
	ChannelID string
	UserID    string
}

type Flow struct {
	key        Key
	candidates []expense.Entry
	registry   *Registry
	timeout    time.Duration

	selection chan int
	done      chan struct{}

	mu    sync.Mutex
	state State
	err   error
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Candidates() []expense.Entry {
	return f.candidates
}

// Await blocks until a selection arrives, the timeout passes, ctx is done or
// a newer flow replaces this one. The returned entry is taken from the
// candidate list the flow was started with.
func (f *Flow) Await(ctx context.Context) (expense.Entry, error) {
	f.mu.Lock()
	if f.state != Listed {
		err := f.err
		f.mu.Unlock()
		if err == nil {
			err = ErrNotPending
		}
		return expense.Entry{}, err
	}
	f.state = AwaitingSelection
	f.mu.Unlock()

	var timeout <-chan time.Time
	if f.timeout > 0 {
		timer := time.NewTimer(f.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case n := <-f.selection:
		f.finish(Completed, nil)
		return f.candidates[n-1], nil
	case <-timeout:
		return f.giveUp(ErrTimeout)
	case <-ctx.Done():
		return f.giveUp(ErrCancelled)
	case <-f.done:
		f.mu.Lock()
		err := f.err
		f.mu.Unlock()
		return expense.Entry{}, err
	}
}

// giveUp still honours a selection that was accepted at the last moment.
func (f *Flow) giveUp(reason error) (expense.Entry, error) {
	select {
	case n := <-f.selection:
		f.finish(Completed, nil)
		return f.candidates[n-1], nil
	default:
	}
	f.finish(Abandoned, reason)
	return expense.Entry{}, reason
}

// offer hands a selection to the flow. It reports false when the flow
// already has one or has finished.
func (f *Flow) offer(n int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Listed && f.state != AwaitingSelection {
		return false
	}
	select {
	case f.selection <- n:
		return true
	default:
		return false
	}
}

func (f *Flow) abandon(err error) {
	f.mu.Lock()
	if f.state == Completed || f.state == Abandoned {
		f.mu.Unlock()
		return
	}
	f.state = Abandoned
	f.err = err
	close(f.done)
	f.mu.Unlock()
}

func (f *Flow) finish(state State, err error) {
	f.mu.Lock()
	if f.state != Completed && f.state != Abandoned {
		f.state = state
		f.err = err
		close(f.done)
	}
	f.mu.Unlock()
	f.registry.release(f)
}

// ParseSelection accepts a base-10 integer within [1, count].
func ParseSelection(content string, count int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > count {
		return 0, false
	}
	return n, true
}
