package highlight

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	rlerrors "github.com/randalmurphal/raceline/pkg/raceline/errors"
)

// AsyncConfig configures an AsyncPublisher.
type AsyncConfig struct {
	// QueueSize is the number of summaries buffered ahead of delivery.
	// Default: 64
	QueueSize int

	// Rate limits deliveries per second. Zero means unlimited.
	Rate rate.Limit

	// Burst is the limiter burst size.
	// Default: 1
	Burst int

	// Retry configures redelivery of transient failures.
	// Default: errors.DefaultRetry
	Retry rlerrors.RetryConfig

	// Logger receives delivery failures and drops.
	// Default: slog.Default()
	Logger *slog.Logger

	// OnError is called when a summary could not be delivered.
	OnError func(s Summary, err error)

	// OnDrop is called when a summary is dropped because the queue is full.
	OnDrop func(s Summary)
}

// DefaultAsyncConfig provides reasonable defaults.
var DefaultAsyncConfig = AsyncConfig{
	QueueSize: 64,
	Rate:      rate.Inf,
	Burst:     1,
	Retry:     rlerrors.DefaultRetry,
}

// AsyncStats counts AsyncPublisher outcomes.
type AsyncStats struct {
	Delivered int64
	Failed    int64
	Dropped   int64
}

// AsyncPublisher queues summaries and delivers them to another Publisher
// from a single background goroutine. Publish never blocks: when the
// queue is full the summary is dropped and ErrQueueFull returned.
type AsyncPublisher struct {
	next    Publisher
	cfg     AsyncConfig
	limiter *rate.Limiter
	queue   chan Summary
	wg      sync.WaitGroup

	mu     sync.RWMutex // guards queue sends against close
	closed bool

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewAsyncPublisher starts an AsyncPublisher delivering to next.
// Call Close to drain the queue and stop the worker.
func NewAsyncPublisher(next Publisher, cfg AsyncConfig) *AsyncPublisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultAsyncConfig.QueueSize
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultAsyncConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultAsyncConfig.Burst
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultAsyncConfig.Retry
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &AsyncPublisher{
		next:    next,
		cfg:     cfg,
		limiter: rate.NewLimiter(cfg.Rate, cfg.Burst),
		queue:   make(chan Summary, cfg.QueueSize),
	}

	p.wg.Add(1)
	go p.run()
	return p
}

// Publish enqueues s for delivery.
func (p *AsyncPublisher) Publish(_ context.Context, s Summary) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- s:
		return nil
	default:
		p.dropped.Add(1)
		p.cfg.Logger.Warn("highlight dropped",
			slog.String("type", string(s.Type)),
			slog.String("driver_id", s.DriverID),
			slog.Int("queue_size", p.cfg.QueueSize),
		)
		if p.cfg.OnDrop != nil {
			p.cfg.OnDrop(s)
		}
		return rlerrors.Transient(ErrQueueFull, "enqueue highlight")
	}
}

// Close stops accepting summaries, delivers everything already queued,
// and waits for the worker to exit. It is safe to call more than once.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Stats returns delivery counts so far.
func (p *AsyncPublisher) Stats() AsyncStats {
	return AsyncStats{
		Delivered: p.delivered.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

func (p *AsyncPublisher) run() {
	defer p.wg.Done()

	ctx := context.Background()
	for s := range p.queue {
		if err := p.limiter.Wait(ctx); err != nil {
			p.fail(s, err)
			continue
		}

		result := rlerrors.WithRetryContext(ctx, p.cfg.Retry, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.next.Publish(ctx, s)
		})
		if result.Err != nil {
			p.fail(s, result.Err)
			continue
		}
		p.delivered.Add(1)
	}
}

func (p *AsyncPublisher) fail(s Summary, err error) {
	p.failed.Add(1)
	p.cfg.Logger.Warn("highlight delivery failed",
		slog.String("type", string(s.Type)),
		slog.String("driver_id", s.DriverID),
		slog.String("error", err.Error()),
	)
	if p.cfg.OnError != nil {
		p.cfg.OnError(s, err)
	}
}
