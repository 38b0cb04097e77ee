package utils

import (
	"context"
	"log/slog"

	"github.com/yourusername/helm-collect/models"
)

// DispatcherInterface hands a queued outbound message to a transport. The
// outbound log row is written before Dispatch is called; implementations
// give no delivery guarantee.
type DispatcherInterface interface {
	Dispatch(ctx context.Context, entry models.OutboundLog) error
}

// LogDispatcher records the intent to send and nothing else.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) DispatcherInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, entry models.OutboundLog) error {
	d.logger.InfoContext(ctx, "Outbound message queued",
		"outbound_id", entry.ID,
		"client_id", entry.ClientID,
		"channel", entry.Channel,
		"recipient", entry.Recipient,
		"reference", entry.Reference,
	)
	return nil
}
