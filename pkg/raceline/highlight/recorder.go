package highlight

import (
	"context"
	"sync"
)

// Recorder is an in-memory Publisher that keeps every summary it
// receives. FailWith makes Publish fail after recording.
type Recorder struct {
	mu        sync.Mutex
	summaries []Summary
	err       error
	onPublish func(Summary)
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, s Summary) error {
	r.mu.Lock()
	r.summaries = append(r.summaries, s)
	err, hook := r.err, r.onPublish
	r.mu.Unlock()

	if hook != nil {
		hook(s)
	}
	return err
}

// FailWith makes subsequent Publish calls return err. Nil restores success.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// OnPublish registers a hook called after each recorded summary.
func (r *Recorder) OnPublish(fn func(Summary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPublish = fn
}

// Summaries returns a copy of the recorded summaries in order.
func (r *Recorder) Summaries() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Summary, len(r.summaries))
	copy(out, r.summaries)
	return out
}

// Len returns the number of recorded summaries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.summaries)
}
