// Package tui is the interactive terminal client. One Bubble Tea program
// with two tabs, the live tracker and the hour reports. Every service call
// runs as a command so the event loop never blocks, and the clock face is
// recomputed from the session start time on each tick.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dev-avwi/TradieTrack-sub007/internal/stats"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timeentry"
	"github.com/dev-avwi/TradieTrack-sub007/internal/timer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E8751A")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F7DC6F"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2).
			MarginBottom(1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8751A")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type tab int

const (
	tabTracker tab = iota
	tabReports
)

type tickMsg time.Time

type reconciledMsg struct{ err error }

type jobsMsg struct {
	jobs []timeentry.Job
	err  error
}

type startedMsg struct{ err error }

type stoppedMsg struct {
	entry timeentry.TimeEntry
	err   error
}

type discardedMsg struct{ err error }

type summaryMsg struct {
	summary stats.Summary
	err     error
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	machine  *timer.Machine
	reporter *stats.Reporter
	jobs     timeentry.JobDirectory

	tab    tab
	width  int
	height int

	// ready flips once the opening reconcile settles. Until then the
	// start/stop/discard keys are ignored.
	ready bool

	jobList  []timeentry.Job
	jobIndex int

	summary stats.Summary

	status      string
	statusIsErr bool
}

func New(machine *timer.Machine, reporter *stats.Reporter, jobs timeentry.JobDirectory) Model {
	return Model{
		machine:  machine,
		reporter: reporter,
		jobs:     jobs,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.reconcileCmd(), m.loadJobsCmd(), tickCmd())
}

func (m Model) reconcileCmd() tea.Cmd {
	return func() tea.Msg {
		return reconciledMsg{err: m.machine.Reconcile(context.Background())}
	}
}

func (m Model) loadJobsCmd() tea.Cmd {
	return func() tea.Msg {
		jobs, err := m.jobs.Jobs(context.Background())
		return jobsMsg{jobs: jobs, err: err}
	}
}

func (m Model) startCmd(jobId string) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.machine.Start(context.Background(), jobId)}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		entry, err := m.machine.Stop(context.Background())
		return stoppedMsg{entry: entry, err: err}
	}
}

func (m Model) discardCmd() tea.Cmd {
	return func() tea.Msg {
		return discardedMsg{err: m.machine.Discard(context.Background())}
	}
}

func (m Model) summaryCmd() tea.Cmd {
	return func() tea.Msg {
		active := m.machine.Snapshot().ActiveEntry
		summary, err := m.reporter.SummaryWithActive(context.Background(), active)
		return summaryMsg{summary: summary, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tickCmd()

	case reconciledMsg:
		m.ready = true
		if msg.err != nil {
			m.setError(fmt.Sprintf("Could not reach the server, assuming no active timer: %v", msg.err))
		} else if m.machine.Snapshot().Phase == timer.PhaseRunning {
			m.setStatus("Picked up the running timer.")
		}
		m.syncJobCursor()

	case jobsMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Could not load jobs: %v", msg.err))
			break
		}
		m.jobList = msg.jobs
		m.syncJobCursor()

	case startedMsg:
		switch {
		case msg.err == nil:
			m.setStatus("Timer started.")
		case errors.Is(msg.err, timeentry.ErrConflict):
			m.setStatus("A timer was already running on another device, picked it up.")
			m.syncJobCursor()
		case errors.Is(msg.err, timeentry.ErrJobRequired):
			m.setError("Pick a job before starting the timer.")
		default:
			m.setError(fmt.Sprintf("Could not start: %v", msg.err))
		}

	case stoppedMsg:
		switch {
		case msg.err == nil:
			m.setStatus(fmt.Sprintf("Booked %d min.", bookedMinutes(msg.entry)))
		case errors.Is(msg.err, timeentry.ErrNotFound):
			m.setStatus("The timer was already closed on another device.")
		default:
			m.setError(fmt.Sprintf("Could not stop: %v", msg.err))
		}

	case discardedMsg:
		switch {
		case msg.err == nil:
			m.setStatus("Session discarded, nothing booked.")
		case errors.Is(msg.err, timeentry.ErrNotFound):
			m.setStatus("The timer was already closed on another device.")
		default:
			m.setError(fmt.Sprintf("Could not discard: %v", msg.err))
		}

	case summaryMsg:
		m.summary = msg.summary
		if msg.err != nil {
			m.setError(fmt.Sprintf("Could not fetch reports, showing zeros: %v", msg.err))
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.tab == tabTracker {
			m.tab = tabReports
			return m, m.summaryCmd()
		}
		m.tab = tabTracker
		return m, nil
	case "r":
		if m.tab == tabReports {
			return m, m.summaryCmd()
		}
		return m, tea.Batch(m.reconcileCmd(), m.loadJobsCmd())
	}

	if m.tab != tabTracker {
		return m, nil
	}

	snap := m.machine.Snapshot()
	switch msg.String() {
	case "up", "k":
		if snap.Phase == timer.PhaseIdle && m.jobIndex > 0 {
			m.jobIndex--
			m.machine.SelectJob(m.jobList[m.jobIndex].Id)
		}
	case "down", "j":
		if snap.Phase == timer.PhaseIdle && m.jobIndex < len(m.jobList)-1 {
			m.jobIndex++
			m.machine.SelectJob(m.jobList[m.jobIndex].Id)
		}
	case " ":
		if !m.ready || snap.InFlight {
			return m, nil
		}
		switch snap.Phase {
		case timer.PhaseIdle:
			if len(m.jobList) == 0 {
				m.setError("No jobs to book time against.")
				return m, nil
			}
			return m, m.startCmd(m.jobList[m.jobIndex].Id)
		case timer.PhaseRunning:
			return m, m.stopCmd()
		}
	case "d":
		if !m.ready || snap.InFlight {
			return m, nil
		}
		if snap.Phase == timer.PhaseRunning {
			return m, m.discardCmd()
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentWidth := m.width - 4
	if contentWidth > 64 {
		contentWidth = 64
	}
	if contentWidth < 36 {
		contentWidth = 36
	}

	trackerTab := tabStyle.Render("Tracker")
	reportsTab := tabStyle.Render("Reports")
	if m.tab == tabTracker {
		trackerTab = activeTabStyle.Render("Tracker")
	} else {
		reportsTab = activeTabStyle.Render("Reports")
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("🕐 TradieTrack"), " ", trackerTab, reportsTab)

	var body string
	if m.tab == tabTracker {
		body = m.trackerView(contentWidth)
	} else {
		body = m.reportsView(contentWidth)
	}

	statusLine := ""
	if m.status != "" {
		style := runningStyle
		if m.statusIsErr {
			style = idleStyle
		}
		statusLine = style.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, "", body, statusLine, m.helpLine())
}

func (m Model) trackerView(width int) string {
	snap := m.machine.Snapshot()

	var badge string
	switch {
	case !m.ready:
		badge = pendingStyle.Render("● SYNCING")
	case snap.Phase == timer.PhaseRunning:
		badge = runningStyle.Render("● RUNNING")
	case snap.Phase == timer.PhaseSaving:
		badge = pendingStyle.Render("● SAVING")
	case snap.Phase == timer.PhaseDiscarding:
		badge = pendingStyle.Render("● DISCARDING")
	default:
		badge = idleStyle.Render("● IDLE")
	}

	clockBox := boxStyle.Width(width).Render(fmt.Sprintf(
		"%s\n\n%s",
		badge,
		clockStyle.Render(snap.Clock),
	))

	jobBox := boxStyle.Width(width).Render(m.jobPicker())

	return lipgloss.JoinVertical(lipgloss.Left, clockBox, jobBox)
}

func (m Model) jobPicker() string {
	var b strings.Builder
	b.WriteString("JOB\n\n")

	if len(m.jobList) == 0 {
		b.WriteString(helpStyle.Render("No jobs loaded."))
		return b.String()
	}

	for i, job := range m.jobList {
		line := job.Title
		if job.ClientName != "" {
			line = fmt.Sprintf("%s (%s)", job.Title, job.ClientName)
		}
		if i == m.jobIndex {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(m.jobList)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) reportsView(width int) string {
	totals := boxStyle.Width(width).Render(fmt.Sprintf(
		"📊 HOURS\n\nToday: %s\nWeek:  %s\nMonth: %s",
		formatHours(m.summary.TodayHours),
		formatHours(m.summary.WeekHours),
		formatHours(m.summary.MonthHours),
	))

	histogram := boxStyle.Width(width).Render(
		"THIS WEEK\n\n" + weekdayHistogram(m.summary.WeekdayHours, width-16))

	return lipgloss.JoinVertical(lipgloss.Left, totals, histogram)
}

func (m Model) helpLine() string {
	if m.tab == tabReports {
		return helpStyle.Render("r refresh • tab tracker • q quit")
	}
	return helpStyle.Render("space start/stop • d discard • ↑/↓ pick job • tab reports • q quit")
}

func (m *Model) syncJobCursor() {
	if len(m.jobList) == 0 {
		m.jobIndex = 0
		return
	}
	if m.jobIndex >= len(m.jobList) {
		m.jobIndex = len(m.jobList) - 1
	}
	selected := m.machine.Snapshot().SelectedJobId
	for i, job := range m.jobList {
		if job.Id == selected {
			m.jobIndex = i
			return
		}
	}
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsErr = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusIsErr = true
}

func bookedMinutes(entry timeentry.TimeEntry) int {
	if entry.DurationMinutes == nil {
		return 0
	}
	return *entry.DurationMinutes
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func weekdayHistogram(hours [7]float64, barWidth int) string {
	if barWidth < 10 {
		barWidth = 10
	}

	peak := 0.0
	for _, v := range hours {
		if v > peak {
			peak = v
		}
	}

	var b strings.Builder
	for i, v := range hours {
		filled := 0
		if peak > 0 {
			filled = int(v / peak * float64(barWidth))
		}
		if v > 0 && filled == 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		b.WriteString(fmt.Sprintf("%s %s %s", weekdayLabels[i], barStyle.Render(bar), formatHours(v)))
		if i < 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatHours(v float64) string {
	return fmt.Sprintf("%.1f h", v)
}
