package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Notification is a rendered check-in prompt handed to a delivery channel.
type Notification struct {
	ReminderID  string    `json:"reminder_id"`
	ContactID   string    `json:"contact_id"`
	UserID      string    `json:"user_id"`
	ContactName string    `json:"contact_name"`
	DueAt       time.Time `json:"due_at"`
	Message     string    `json:"message"`
}

// Delivery sends a notification over one channel (push, email, chat).
type Delivery interface {
	// Name identifies the channel for logs and circuit breaker state.
	Name() string

	// Send delivers the notification.
	Send(ctx context.Context, n Notification) error
}

// DispatcherConfig configures the per-channel circuit breakers.
type DispatcherConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is how many consecutive failures trip the breaker.
	FailureThreshold uint32
}

// DefaultDispatcherConfig returns a sensible default configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Dispatcher fans a notification out to every registered channel, each behind
// its own circuit breaker so one flapping provider cannot stall the rest.
type Dispatcher struct {
	channels []Delivery
	breakers map[string]*gobreaker.CircuitBreaker[any]
	config   DispatcherConfig
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given delivery channels.
func NewDispatcher(channels []Delivery, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		channels: channels,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		config:   config,
		logger:   logger,
	}
}

func (d *Dispatcher) getBreaker(name string) *gobreaker.CircuitBreaker[any] {
	if breaker, exists := d.breakers[name]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: d.config.MaxRequests,
		Interval:    d.config.Interval,
		Timeout:     d.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= d.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Info("delivery circuit breaker state changed",
				"channel", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	d.breakers[name] = breaker
	return breaker
}

// Dispatch sends the notification on each channel. A failed or open channel is
// logged and skipped; Dispatch reports success when at least one channel took
// the notification, or there were no channels to try.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	if len(d.channels) == 0 {
		return nil
	}

	var lastErr error
	delivered := 0
	for _, channel := range d.channels {
		breaker := d.getBreaker(channel.Name())
		_, err := breaker.Execute(func() (any, error) {
			return nil, channel.Send(ctx, n)
		})
		if err != nil {
			d.logger.Warn("notification delivery failed",
				"channel", channel.Name(),
				"reminder_id", n.ReminderID,
				"error", err,
			)
			lastErr = err
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return lastErr
	}
	return nil
}
