package notify

import (
	"context"
	"sync"
)

// Recorder is a Channel and Notifier that keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Deliver implements Channel. The notice is recorded even when FailWith
// has set an error.
func (r *Recorder) Deliver(_ context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return r.err
}

// Notify implements Notifier. Notices recorded this way never have
// Fallback set.
func (r *Recorder) Notify(ctx context.Context, team, message string) {
	_ = r.Deliver(ctx, Notice{Team: team, Message: message})
}

// FailWith makes subsequent deliveries return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Notices returns a copy of the recorded notices in order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Len returns the number of recorded notices.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}
