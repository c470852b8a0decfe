// Package tui renders a live panel of the tracked group: leader, status,
// members, and the most recent server lines.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupsense/internal/group"
	"github.com/Iron-Ham/groupsense/internal/session"
)

// Group is the part of group.Tracker the panel reads and drives.
type Group interface {
	Snapshot() group.State
	Broken() bool
	Check(ctx context.Context) []group.Member
}

// Default panel settings.
const (
	DefaultRefresh     = 500 * time.Millisecond
	DefaultHistoryRows = 10
)

// Messages

type tickMsg time.Time

// changedMsg is sent when the event bus reports a group change.
type changedMsg struct{}

type probeDoneMsg struct {
	members int
	at      time.Time
	elapsed time.Duration
}

// SourceDoneMsg reports that the line source has stopped.
type SourceDoneMsg struct {
	Err error
}

// Model is the bubbletea model for the panel.
type Model struct {
	ctx     context.Context
	group   Group
	history *session.History

	keys    keyMap
	help    help.Model
	refresh time.Duration
	rows    int
	width   int

	state  group.State
	broken bool
	lines  []session.Entry

	probing      bool
	lastProbe    time.Time
	probeElapsed time.Duration
	sourceDone   bool
	sourceErr    error
	quitting     bool
}

// Options configures a Model.
type Options struct {
	Group   Group
	History *session.History
	// Refresh is the redraw interval; zero uses DefaultRefresh.
	Refresh time.Duration
	// Rows is how many recent lines to show; zero uses DefaultHistoryRows.
	Rows int
}

// NewModel returns a Model. ctx bounds probes started from the panel.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultHistoryRows
	}
	m := Model{
		ctx:     ctx,
		group:   opts.Group,
		history: opts.History,
		keys:    defaultKeyMap(),
		help:    help.New(),
		refresh: opts.Refresh,
		rows:    opts.Rows,
	}
	m.sync()
	return m
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sync copies the tracker and history into the model.
func (m *Model) sync() {
	m.state = m.group.Snapshot()
	m.broken = m.group.Broken()
	if m.history != nil {
		m.lines = m.history.Tail(m.rows)
	}
}

func (m Model) probe() tea.Cmd {
	g, ctx := m.group, m.ctx
	return func() tea.Msg {
		start := time.Now()
		members := g.Check(ctx)
		return probeDoneMsg{members: len(members), at: time.Now(), elapsed: time.Since(start)}
	}
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tick(m.refresh)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Check):
			if m.probing {
				return m, nil
			}
			m.probing = true
			return m, m.probe()
		case key.Matches(msg, m.keys.Clear):
			if m.history != nil {
				m.history.Reset()
			}
			m.lines = nil
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		m.sync()
		return m, tick(m.refresh)

	case changedMsg:
		m.sync()

	case probeDoneMsg:
		m.probing = false
		m.lastProbe = msg.at
		m.probeElapsed = msg.elapsed
		m.sync()

	case SourceDoneMsg:
		m.sourceDone = true
		m.sourceErr = msg.Err
		m.sync()
	}
	return m, nil
}
