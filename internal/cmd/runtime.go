package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/groupsense/internal/config"
	"github.com/Iron-Ham/groupsense/internal/event"
	"github.com/Iron-Ham/groupsense/internal/group"
	"github.com/Iron-Ham/groupsense/internal/logging"
	"github.com/Iron-Ham/groupsense/internal/room"
	"github.com/Iron-Ham/groupsense/internal/session"
	"github.com/Iron-Ham/groupsense/internal/tmux"
)

// runtime is one tracking session: a transport, the tracker it feeds and
// everything observing them.
type runtime struct {
	cfg     *config.Config
	logger  *logging.Logger
	bus     *event.Bus
	tracker *group.Tracker
	room    *room.Watcher
	history *session.History
	conn    *session.Session

	// lines counts every line the last pump read.
	lines int
}

// loadConfig reads the merged configuration (defaults, file, environment),
// applies the command's transport flags and then override, and validates the
// result.
func loadConfig(cmd *cobra.Command, flags *transportFlags, override func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if flags != nil {
		flags.apply(cmd, cfg)
	}
	if override != nil {
		override(cfg)
	}
	if err := revalidate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the file logger described by cfg, or a no-op logger when
// logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Logging.LogDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

// sessionOptions maps the transport section onto session.Options.
func sessionOptions(cfg *config.Config) session.Options {
	t := cfg.Transport
	return session.Options{
		Kind:        t.Kind,
		Path:        t.Path,
		FromStart:   t.FromStart,
		Address:     t.Address,
		URL:         t.URL,
		ExecCommand: t.ExecArgs(),
		TmuxTarget:  t.TmuxTarget,
		TmuxSocket:  t.TmuxSocket,
		DialTimeout: t.DialTimeout(),
	}
}

func trackerConfig(cfg *config.Config) group.Config {
	return group.Config{
		ProbeCommand: cfg.Probe.Command,
		ProbeTimeout: cfg.Probe.Timeout(),
	}
}

// newRuntime opens the transport and wires the tracker, room watcher and
// event bus around it. stdin replaces os.Stdin for the stdin transport.
func newRuntime(ctx context.Context, cfg *config.Config, stdin io.Reader) (*runtime, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger = logger.WithSession(fmt.Sprintf("%s-%d", cfg.Transport.Kind, time.Now().Unix()))

	opts := sessionOptions(cfg)
	opts.Stdin = stdin
	opts.Logger = logger.WithComponent("session")
	conn, err := session.Open(ctx, opts)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	bus := event.NewBus()
	bus.SetLogger(logger.WithComponent("event"))

	tracker := group.NewTracker(trackerConfig(cfg))
	tracker.SetLogger(logger.WithComponent("group"))
	tracker.SetCommander(conn)
	tracker.SetBus(bus)

	r := &runtime{
		cfg:     cfg,
		logger:  logger,
		bus:     bus,
		tracker: tracker,
		history: session.NewHistory(cfg.History.Lines),
		conn:    conn,
	}
	if cfg.Room.Enabled {
		r.room = room.NewWatcher()
		r.room.SetLogger(logger.WithComponent("room"))
		r.room.SetBus(bus)
		tracker.SetRoomObserver(r.room)
	}

	if t := cfg.Transport.TmuxTarget; t != "" && !(tmux.Client{Socket: cfg.Transport.TmuxSocket}).HasSession(ctx, t) {
		logger.Warn("tmux target has no session, probes will fail", "target", t)
	}

	logger.Info("session opened", "transport", conn.Kind)
	return r, nil
}

// sinks returns the line consumers in dispatch order. The room watcher sees
// each line before the tracker so Broken compares against the latest room.
func (r *runtime) sinks() []session.Sink {
	if r.room == nil {
		return []session.Sink{r.tracker}
	}
	return []session.Sink{r.room, r.tracker}
}

// pump feeds every transport line to the sinks until the source ends.
func (r *runtime) pump(ctx context.Context) error {
	n, err := session.Pump(ctx, r.conn, r.history, r.sinks()...)
	r.lines = n
	r.logger.Info("source stopped",
		"lines", n,
		"handled", r.history.Handled(),
		"error", err,
	)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// probeLoop re-checks the group every probe interval until ctx ends, when
// the membership is unconfirmed or disagrees with the room. A zero interval
// disables it.
func (r *runtime) probeLoop(ctx context.Context) {
	interval := r.cfg.Probe.Interval()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.tracker.Broken() {
				r.logger.Info("group disagrees with room, checking")
				r.tracker.Check(ctx)
				continue
			}
			r.tracker.MaybeCheck(ctx)
		}
	}
}

// runPlain pumps lines while printing every group event to out. It returns
// when the source ends or ctx is cancelled.
func (r *runtime) runPlain(ctx context.Context, out io.Writer) error {
	id := r.bus.SubscribeAll(func(e event.Event) {
		if line := formatEvent(e); line != "" {
			fmt.Fprintln(out, line)
		}
	})
	defer r.bus.Unsubscribe(id)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pumpErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		defer cancel()
		pumpErr = r.pump(ctx)
	})
	wg.Go(func() { r.probeLoop(ctx) })
	wg.Wait()
	return pumpErr
}

// Close releases the transport and the log file.
func (r *runtime) Close() error {
	err := r.conn.Close()
	if cerr := r.logger.Close(); err == nil {
		err = cerr
	}
	return err
}
