package removal

import (
	"sync"
	"time"

	"github.com/fatali-fataliyev/thriftier/internal/expense"
)

// Registry holds at most one pending flow per Key.
type Registry struct {
	mu      sync.Mutex
	flows   map[Key]*Flow
	timeout time.Duration
}

// NewRegistry creates a registry whose flows give up after timeout.
// A zero timeout waits until the flow's context is done.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		flows:   make(map[Key]*Flow),
		timeout: timeout,
	}
}

// Begin registers a new flow in the Listed state. A pending flow for the
// same key is abandoned with ErrSuperseded.
func (r *Registry) Begin(key Key, candidates []expense.Entry) *Flow {
	flow := &Flow{
		key:        key,
		candidates: candidates,
		registry:   r,
		timeout:    r.timeout,
		selection:  make(chan int, 1),
		done:       make(chan struct{}),
		state:      Listed,
	}

	r.mu.Lock()
	previous := r.flows[key]
	r.flows[key] = flow
	r.mu.Unlock()

	if previous != nil {
		previous.abandon(ErrSuperseded)
	}
	return flow
}

// Offer routes a chat message to the pending flow for key. It returns true
// only when the message was taken as the selection; otherwise the message
// should be handled as a normal command.
func (r *Registry) Offer(key Key, content string) bool {
	r.mu.Lock()
	flow := r.flows[key]
	r.mu.Unlock()
	if flow == nil {
		return false
	}

	n, ok := ParseSelection(content, len(flow.candidates))
	if !ok {
		return false
	}
	return flow.offer(n)
}

// Pending counts flows that still wait for a selection.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

func (r *Registry) release(f *Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flows[f.key] == f {
		delete(r.flows, f.key)
	}
}
