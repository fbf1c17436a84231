package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	sharedDomain "github.com/felixgeelhaar/touchbase/internal/shared/domain"
	"github.com/felixgeelhaar/touchbase/internal/shared/infrastructure/eventbus"
)

// DueSweeper periodically finds reminders whose instant has passed and emits
// a due event for each. Delivery and notified bookkeeping happen downstream,
// so a sweep that dies mid-batch just re-emits on the next run.
type DueSweeper struct {
	reminders domain.ReminderRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewDueSweeper creates a sweeper over the given reminder store.
func NewDueSweeper(reminders domain.ReminderRepository, publisher eventbus.Publisher, logger *slog.Logger) *DueSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueSweeper{
		reminders: reminders,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Sweep publishes a due event for every overdue, not-yet-notified reminder.
// Returns the number of events published.
func (s *DueSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, reminder := range due {
		event := domain.NewReminderDue(reminder)
		if err := eventbus.PublishDomainEvents(ctx, s.publisher, []sharedDomain.DomainEvent{event}); err != nil {
			s.logger.Error("failed to publish due event",
				"reminder_id", reminder.ID(),
				"error", err,
			)
			continue
		}
		published++
	}

	if published > 0 {
		s.logger.Info("due sweep finished", "due", len(due), "published", published)
	}
	return published, nil
}
