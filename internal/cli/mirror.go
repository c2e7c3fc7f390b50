package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/orgclone/internal/core"
	"github.com/inovacc/orgclone/internal/model"
	xprogress "github.com/inovacc/orgclone/internal/progress"
)

const recentActivity = 5

// MirrorModel represents the state of the mirror TUI. The engine runs outside
// the program and feeds it through a ProgramObserver.
type MirrorModel struct {
	entity string
	cancel context.CancelFunc

	// Progress tracking
	total    int
	current  int
	outcomes map[model.Outcome]int

	// Active operations (limited by parallel count)
	active map[string]*activeOperation

	// Recent activity log (last N completed operations)
	activity []activityItem

	// UI components
	spinner  spinner.Model
	progress progress.Model
	repoBar  progress.Model

	// State
	discovering bool
	cancelling  bool
	done        bool
	summary     *core.Summary
	err         error
}

type activeOperation struct {
	repo      model.RepositoryMetadata
	action    core.Action
	startTime time.Time
	received  int
	total     int
}

type activityItem struct {
	repo       string
	outcome    model.Outcome
	duration   time.Duration
	message    string
	retryCount int
}

// Message types
type runStartMsg struct {
	entity string
	total  int
}

type repoStartMsg struct {
	repo   model.RepositoryMetadata
	action core.Action
}

type repoSampleMsg struct {
	sample xprogress.Sample
}

type repoResultMsg struct {
	result model.SyncResult
}

type runDoneMsg struct {
	summary *core.Summary
	err     error
}

// RunDone is sent to the program when the engine returns.
func RunDone(summary *core.Summary, err error) tea.Msg {
	return runDoneMsg{summary: summary, err: err}
}

// NewMirrorModel creates a new mirror TUI model. cancel is called when the
// user quits; the model then waits for the engine to wind down.
func NewMirrorModel(entity string, cancel context.CancelFunc) *MirrorModel {
	m := &MirrorModel{
		entity:      entity,
		cancel:      cancel,
		discovering: true,
		outcomes:    make(map[model.Outcome]int),
		active:      make(map[string]*activeOperation),
		activity:    make([]activityItem, 0, 10),
	}

	// Initialize UI components
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = spinnerStyle

	m.progress = progress.New(progress.WithDefaultGradient())
	m.repoBar = progress.New(progress.WithSolidFill("86"), progress.WithWidth(20), progress.WithoutPercentage())

	return m
}

func (m *MirrorModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *MirrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}

			m.cancelling = true

			return m, nil
		}

	case runStartMsg:
		m.discovering = false
		m.total = msg.total

		return m, nil

	case repoStartMsg:
		m.active[msg.repo.Name] = &activeOperation{
			repo:      msg.repo,
			action:    msg.action,
			startTime: time.Now(),
		}

		return m, nil

	case repoSampleMsg:
		if op, ok := m.active[msg.sample.Repo]; ok {
			op.received = msg.sample.Received
			op.total = msg.sample.Total
		}

		return m, nil

	case repoResultMsg:
		// Remove from active
		delete(m.active, msg.result.Repo.Name)

		m.current++
		m.outcomes[msg.result.Outcome]++

		// Add to the activity log
		m.addActivity(msg.result)

		return m, nil

	case runDoneMsg:
		m.done = true
		m.summary = msg.summary
		m.err = msg.err

		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *MirrorModel) View() string {
	if m.done {
		return m.renderComplete()
	}

	var b strings.Builder

	b.WriteString("\n")

	if m.discovering {
		b.WriteString(fmt.Sprintf("%s Discovering repositories of %s...\n\n", m.spinner.View(), boldStyle.Render(m.entity)))
		b.WriteString(dimStyle.Render("Press 'q' to cancel"))
		b.WriteString("\n")

		return b.String()
	}

	// Header
	b.WriteString(boldStyle.Render(fmt.Sprintf("Mirroring: %s", m.entity)))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d repositories)", m.total)))
	b.WriteString("\n\n")

	// Status counters
	b.WriteString(boldStyle.Render("Status:"))
	b.WriteString("\n")
	b.WriteString(successStyle.Render(fmt.Sprintf("  Cloned:         %d\n", m.outcomes[model.OutcomeCloned]+m.outcomes[model.OutcomeRecloned])))
	b.WriteString(infoStyle.Render(fmt.Sprintf("  Fast-forwarded: %d\n", m.outcomes[model.OutcomeFastForwarded])))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Up to date:     %d\n", m.outcomes[model.OutcomeUpToDate])))
	b.WriteString(warningStyle.Render(fmt.Sprintf("  Unmergeable:    %d\n", m.outcomes[model.OutcomeUnmergeable])))
	b.WriteString(errorStyle.Render(fmt.Sprintf("  Failed:         %d\n", m.outcomes[model.OutcomeFailed])))
	b.WriteString("\n")

	// Progress bar
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}

	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %d/%d\n\n", m.current, m.total)))

	// Active operations
	if len(m.active) > 0 {
		b.WriteString(boldStyle.Render(fmt.Sprintf("Currently processing (%d):", len(m.active))))
		b.WriteString("\n")

		for _, op := range m.sortedActive() {
			b.WriteString(infoStyle.Render(fmt.Sprintf("  [%s] %-30s %-8s ", m.spinner.View(), op.repo.Name, op.action)))

			if op.total > 0 {
				b.WriteString(m.repoBar.ViewAs(float64(xprogress.Percent(op.received, op.total)) / 100))
				b.WriteString(dimStyle.Render(fmt.Sprintf(" %d/%d", op.received, op.total)))
			}

			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	// Recent activity log
	if len(m.activity) > 0 {
		b.WriteString(boldStyle.Render("Recent activity:"))
		b.WriteString("\n")

		start := max(len(m.activity)-recentActivity, 0)

		for _, item := range m.activity[start:] {
			var (
				statusIcon string
				style      lipgloss.Style
			)

			switch item.outcome {
			case model.OutcomeFailed:
				statusIcon = "[FAIL]"
				style = errorStyle
			case model.OutcomeUnmergeable:
				statusIcon = "[WARN]"
				style = warningStyle
			default:
				statusIcon = "[OK]"
				style = successStyle
			}

			message := item.message
			if len(message) > 60 {
				message = message[:57] + "..."
			}

			// Show retry count if any retries occurred
			retryInfo := ""
			if item.retryCount > 0 {
				retryInfo = fmt.Sprintf(" (retries: %d)", item.retryCount)
			}

			b.WriteString(style.Render(fmt.Sprintf("  %s %s", statusIcon, item.repo)))
			b.WriteString(dimStyle.Render(fmt.Sprintf(" - %s%s\n", message, retryInfo)))
		}

		b.WriteString("\n")
	}

	// Footer
	if m.cancelling {
		b.WriteString(warningStyle.Render("Cancelling, waiting for running operations..."))
	} else {
		b.WriteString(dimStyle.Render("Press 'q' to cancel"))
	}

	b.WriteString("\n")

	return b.String()
}

func (m *MirrorModel) renderComplete() string {
	var b strings.Builder

	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Mirror of %s failed: %v", m.entity, m.err)))
	case m.cancelling:
		b.WriteString(warningStyle.Render("Mirror operation cancelled."))
	default:
		b.WriteString(successStyle.Render("Mirror operation complete!"))
	}

	b.WriteString("\n")

	return b.String()
}

func (m *MirrorModel) sortedActive() []*activeOperation {
	ops := make([]*activeOperation, 0, len(m.active))
	for _, op := range m.active {
		ops = append(ops, op)
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].startTime.Before(ops[j].startTime) ||
			(ops[i].startTime.Equal(ops[j].startTime) && ops[i].repo.Name < ops[j].repo.Name)
	})

	return ops
}

func (m *MirrorModel) addActivity(result model.SyncResult) {
	var message string

	switch result.Outcome {
	case model.OutcomeFailed:
		message = "unknown error"
		if result.Err != nil {
			message = result.Err.Error()
		}
	case model.OutcomeUnmergeable:
		message = result.Detail
	default:
		message = fmt.Sprintf("%s in %.1fs", result.Outcome, result.Duration.Seconds())
	}

	m.activity = append(m.activity, activityItem{
		repo:       result.Repo.Name,
		outcome:    result.Outcome,
		duration:   result.Duration,
		message:    message,
		retryCount: result.Retries,
	})
}

// Error returns the error if the mirror failed
func (m *MirrorModel) Error() error {
	return m.err
}

// Summary returns the run summary once the engine has returned.
func (m *MirrorModel) Summary() *core.Summary {
	return m.summary
}

// Cancelled reports whether the user quit before the run finished.
func (m *MirrorModel) Cancelled() bool {
	return m.cancelling
}
