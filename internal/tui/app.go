package tui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupsense/internal/event"
)

// App wraps the bubbletea program
type App struct {
	program *tea.Program
	bus     *event.Bus
}

// New creates the panel. When bus is non-nil the panel redraws on every
// published event instead of waiting for the next tick.
func New(ctx context.Context, opts Options, bus *event.Bus) *App {
	return &App{
		program: tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)),
		bus:     bus,
	}
}

// SourceDone tells the panel the line source stopped.
func (a *App) SourceDone(err error) {
	a.program.Send(SourceDoneMsg{Err: err})
}

// Run starts the panel and blocks until the user quits or ctx ends.
func (a *App) Run() error {
	if a.bus != nil {
		id := a.bus.SubscribeAll(func(event.Event) {
			go a.program.Send(changedMsg{})
		})
		defer a.bus.Unsubscribe(id)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigChan)
		close(sigChan)
	}()

	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Quit()
		}
	}()

	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
