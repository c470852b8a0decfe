package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/groupsense/internal/tui/styles"
)

// View renders the panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderMembers(),
		m.renderLines(),
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, styles.HelpBar.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("groupsense  ")

	leader := m.state.Leader
	b.WriteString(styles.LeaderBadge(leader.Kind().String(), "leader: "+leader.String()))
	b.WriteString(styles.StatusBadge(m.state.Status.String()))
	if m.state.Checked {
		b.WriteString(styles.Secondary.Render("checked"))
	} else {
		b.WriteString(styles.Muted.Render("unchecked"))
	}
	if m.broken {
		b.WriteString("  ")
		b.WriteString(styles.WarningMsg.Render("BROKEN"))
	}
	return styles.Header.Render(b.String())
}

func (m Model) renderMembers() string {
	title := styles.SectionTitle.Render(fmt.Sprintf("Members (%d)", len(m.state.Members)))
	if len(m.state.Members) == 0 {
		return styles.MemberBox.Render(title + "\n" + styles.Muted.Render("no members"))
	}

	rows := make([]string, 0, len(m.state.Members)+1)
	rows = append(rows, title)
	for _, member := range m.state.Members {
		row := member.String()
		if m.state.Leader.Is(member.ID) {
			rows = append(rows, styles.MemberLeader.Render("* "+row))
			continue
		}
		rows = append(rows, "  "+row)
	}
	return styles.MemberBox.Render(strings.Join(rows, "\n"))
}

func (m Model) renderLines() string {
	rows := []string{styles.SectionTitle.Render("Recent lines")}
	if len(m.lines) == 0 {
		rows = append(rows, styles.Muted.Render("waiting for output"))
	}
	for _, e := range m.lines {
		text := truncate(e.Line, m.width-11)
		stamp := e.Time.Format("15:04:05")
		if e.Handled {
			rows = append(rows, styles.Muted.Render(stamp)+" "+styles.LineHandled.Render(text))
		} else {
			rows = append(rows, styles.Muted.Render(stamp)+" "+styles.LineIgnored.Render(text))
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatus() string {
	switch {
	case m.sourceErr != nil:
		return styles.ErrorMsg.Render("source stopped: " + m.sourceErr.Error())
	case m.sourceDone:
		return styles.WarningMsg.Render("source ended")
	case m.probing:
		return styles.Primary.Render("checking group...")
	case !m.lastProbe.IsZero():
		return styles.Muted.Render(fmt.Sprintf("last check %s (%s)",
			m.lastProbe.Format("15:04:05"), m.probeElapsed.Round(time.Millisecond)))
	}
	return ""
}

// truncate shortens s to width terminal columns with an ellipsis. Escape
// sequences and wide characters are measured by their display width.
// Non-positive widths leave s unchanged.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
