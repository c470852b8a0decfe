package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/config"
	"github.com/Iron-Ham/groupsense/internal/session"
	"github.com/Iron-Ham/groupsense/internal/tui"
)

// useTUI reports whether the live panel can take over the terminal. The
// stdin transport keeps plain output because the panel needs stdin for keys.
func useTUI(cfg *config.Config, disabled bool) bool {
	if disabled || !cfg.TUI.Enabled || cfg.Transport.Kind == session.KindStdin {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

// commandContext returns the command's context, cancelled on SIGINT or
// SIGTERM when cancellable is true.
func commandContext(cmd *cobra.Command, cancellable bool) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !cancellable {
		return context.WithCancel(ctx)
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// runLive tracks a live transport until the source ends or the user stops
// it, through the panel on a terminal and as event lines otherwise.
func runLive(cmd *cobra.Command, cfg *config.Config, noTUI bool) error {
	// A blocked stdin read cannot be interrupted, so stdin keeps the
	// default signal behavior.
	ctx, cancel := commandContext(cmd, cfg.Transport.Kind != session.KindStdin)
	defer cancel()

	r, err := newRuntime(ctx, cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer r.Close()

	if useTUI(cfg, noTUI) {
		return r.runTUI(ctx)
	}

	out := cmd.OutOrStdout()
	if err := r.runPlain(ctx, out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printState(out, r.tracker.Snapshot(), r.tracker.Broken())
	return nil
}

// runTUI shows the live panel while the pump and periodic probe run
// alongside it.
func (r *runtime) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.New(ctx, tui.Options{
		Group:   r.tracker,
		History: r.history,
		Refresh: r.cfg.TUI.Refresh(),
		Rows:    r.cfg.TUI.HistoryRows,
	}, r.bus)

	var wg conc.WaitGroup
	wg.Go(func() { app.SourceDone(r.pump(ctx)) })
	wg.Go(func() { r.probeLoop(ctx) })

	err := app.Run()
	cancel()
	wg.Wait()
	return err
}
