package highlight

import (
	"context"
	"log/slog"
)

// LogPublisher writes each summary to a logger as a JSON payload.
// It stands in for the external highlight service when none is wired.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a LogPublisher. A nil logger uses slog.Default.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, s Summary) error {
	payload, err := Encode(s, FormatJSON)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "highlight sent",
		slog.String("type", string(s.Type)),
		slog.String("payload", string(payload)),
	)
	return nil
}
