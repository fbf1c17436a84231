package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/adapter/cli/contact"
	"github.com/felixgeelhaar/touchbase/adapter/cli/reminder"
	"github.com/felixgeelhaar/touchbase/internal/app"
	"github.com/felixgeelhaar/touchbase/pkg/config"
	"github.com/felixgeelhaar/touchbase/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults.
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	logger = observability.LoggerForApp(cfg.AppEnv, cfg.LogLevel)
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		cliApp = cli.NewApp(container)

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid TOUCHBASE_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(contact.Cmd)
	cli.AddCommand(reminder.Cmd)

	cli.Execute()
}
