// Package app wires configuration, storage, messaging, and the scheduling
// application layer into one container shared by the CLI and the worker.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/touchbase/internal/notify"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/services"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/workers"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/touchbase/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/touchbase/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	PgPool      *pgxpool.Pool
	SQLiteDB    *sql.DB
	RedisClient *redis.Client

	// Messaging
	Publisher eventbus.Publisher

	// Repositories
	Reminders   domain.ReminderRepository
	Contacts    domain.ContactRepository
	Preferences domain.PreferencesRepository
	Patterns    domain.PatternRepository

	// SQLiteContacts is set in local mode for seeding contacts from the CLI.
	SQLiteContacts *persistence.SQLiteContactRepository

	// Services
	History        *services.SchedulingHistory
	Snoozer        *services.SnoozeHandler
	DueSweeper     *workers.DueSweeper
	NotifyConsumer *notify.DueReminderConsumer

	// Command handlers
	ScheduleReminderHandler *commands.ScheduleReminderHandler
	SnoozeReminderHandler   *commands.SnoozeReminderHandler
	CompleteReminderHandler *commands.CompleteReminderHandler

	// Query handlers
	UpcomingRemindersHandler *queries.UpcomingRemindersHandler
	SnoozeOptionsHandler     *queries.SnoozeOptionsHandler
	ContactPatternsHandler   *queries.ContactPatternsHandler
}

// NewContainer builds the application container. With a DATABASE_URL it runs
// against Postgres (plus Redis for patterns when configured, RabbitMQ for
// events); without one it runs fully local on a SQLite file with an in-process
// event bus.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if cfg.IsLocalMode() {
		if err := c.initLocal(ctx); err != nil {
			c.Close()
			return nil, err
		}
	} else {
		if err := c.initServer(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	schedulerCfg := services.SchedulerConfig{
		Timezone: cfg.Timezone,
		Seed:     cfg.SchedulerSeed,
	}

	c.History = services.NewSchedulingHistory(c.Patterns, logger)
	c.Snoozer = services.NewSnoozeHandler(c.Contacts, c.Reminders, c.Preferences, c.History, schedulerCfg, logger)
	c.DueSweeper = workers.NewDueSweeper(c.Reminders, c.Publisher, logger)

	c.ScheduleReminderHandler = commands.NewScheduleReminderHandler(
		c.Contacts, c.Reminders, c.Preferences, c.History, c.Publisher, schedulerCfg, logger)
	c.SnoozeReminderHandler = commands.NewSnoozeReminderHandler(c.Snoozer, c.Reminders, c.Publisher, logger)
	c.CompleteReminderHandler = commands.NewCompleteReminderHandler(
		c.Reminders, c.Contacts, c.History, c.Publisher, logger)

	c.UpcomingRemindersHandler = queries.NewUpcomingRemindersHandler(c.Reminders, c.Contacts)
	c.SnoozeOptionsHandler = queries.NewSnoozeOptionsHandler(c.Snoozer)
	c.ContactPatternsHandler = queries.NewContactPatternsHandler(c.History)

	return c, nil
}

// initLocal wires the SQLite file and the in-process bus, with notifications
// written to the log.
func (c *Container) initLocal(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.Config.SQLitePath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbConn, err := sql.Open("sqlite", c.Config.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	c.SQLiteDB = dbConn

	if err := persistence.EnsureSQLiteSchema(ctx, dbConn); err != nil {
		return fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	c.Reminders = persistence.NewSQLiteReminderRepository(dbConn)
	sqliteContacts := persistence.NewSQLiteContactRepository(dbConn)
	c.Contacts = sqliteContacts
	c.SQLiteContacts = sqliteContacts
	c.Preferences = persistence.NewSQLitePreferencesRepository(dbConn)
	c.Patterns = persistence.NewSQLitePatternRepository(dbConn)

	bus := eventbus.NewInProcessEventBus(c.Logger)
	dispatcher := notify.NewDispatcher(
		[]notify.Delivery{notify.NewLogDelivery(c.Logger)},
		notify.DefaultDispatcherConfig(),
		c.Logger,
	)
	c.NotifyConsumer = notify.NewDueReminderConsumer(dispatcher, c.Reminders, c.Contacts, c.Logger)
	bus.RegisterConsumer(c.NotifyConsumer)
	c.Publisher = bus

	c.Logger.Debug("container initialized in local mode", "db_path", c.Config.SQLitePath)
	return nil
}

// initServer wires Postgres, optional Redis, and RabbitMQ.
func (c *Container) initServer(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.PgPool = pool

	c.Reminders = persistence.NewPostgresReminderRepository(pool)
	c.Contacts = persistence.NewPostgresContactRepository(pool)

	// The preferences repository runs on database/sql; share the pool through
	// the pgx stdlib adapter.
	c.Preferences = persistence.NewPostgresPreferencesRepository(stdlib.OpenDBFromPool(pool))

	if c.Config.RedisURL != "" {
		opt, err := redis.ParseURL(c.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		c.RedisClient = client
		c.Patterns = persistence.NewRedisPatternRepository(client)
	} else {
		c.Logger.Warn("REDIS_URL not set, pattern history kept in memory")
		c.Patterns = persistence.NewInMemoryPatternRepository()
	}

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Publisher = publisher
	} else {
		c.Logger.Warn("RABBITMQ_URL not set, events are discarded")
		c.Publisher = eventbus.NewNoopPublisher(c.Logger)
	}

	c.Logger.Debug("container initialized in server mode")
	return nil
}

// Close releases all container resources.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close sqlite database", "error", err)
		}
	}
	if c.PgPool != nil {
		c.PgPool.Close()
	}
}
