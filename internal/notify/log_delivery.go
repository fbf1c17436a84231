package notify

import (
	"context"
	"log/slog"
)

// LogDelivery writes notifications to the structured log. It is the default
// channel in local mode, where no push or email provider is configured.
type LogDelivery struct {
	logger *slog.Logger
}

// NewLogDelivery creates a log-backed delivery channel.
func NewLogDelivery(logger *slog.Logger) *LogDelivery {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDelivery{logger: logger}
}

func (d *LogDelivery) Name() string { return "log" }

func (d *LogDelivery) Send(_ context.Context, n Notification) error {
	d.logger.Info("check-in due",
		"reminder_id", n.ReminderID,
		"contact_id", n.ContactID,
		"contact", n.ContactName,
		"due_at", n.DueAt,
		"message", n.Message,
	)
	return nil
}
