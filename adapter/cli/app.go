package cli

import (
	"github.com/felixgeelhaar/touchbase/internal/app"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	Container     *app.Container
	CurrentUserID uuid.UUID
}

// NewApp creates a CLI app over the wired container.
func NewApp(container *app.Container) *App {
	return &App{Container: container}
}

// SetCurrentUserID sets the acting user for all commands.
func (a *App) SetCurrentUserID(userID uuid.UUID) {
	a.CurrentUserID = userID
}

var currentApp *App

// SetApp sets the global CLI app instance.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the global CLI app instance, or nil when the container could
// not be initialized.
func GetApp() *App {
	return currentApp
}
