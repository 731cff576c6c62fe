// Package prompt implements the interactive approval prompt as a
// bubbletea component.
package prompt

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Decision is the outcome of the prompt.
type Decision int

const (
	// DecisionPending means the prompt has not been answered yet.
	DecisionPending Decision = iota
	// DecisionApproved means the user approved the operation.
	DecisionApproved
	// DecisionDenied means the user denied the operation.
	DecisionDenied
)

// Options configures the approval prompt.
type Options struct {
	Message        string
	OperationType  string
	Target         string
	Description    string
	RiskLevel      string
	Preview        string
	StatedRisks    []string
	Stage          int
	TotalStages    int
	TimeoutWarning string

	// Deadline enables the countdown display when non-zero.
	Deadline      time.Time
	ShowCountdown bool
}

type tickMsg time.Time

// Model is the bubbletea model for a single confirmation stage.
type Model struct {
	opts      Options
	decision  Decision
	remaining time.Duration
	width     int
}

// New creates a prompt model.
func New(opts Options) Model {
	m := Model{opts: opts}
	if opts.ShowCountdown && !opts.Deadline.IsZero() {
		m.remaining = time.Until(opts.Deadline)
	}
	return m
}

// Decision returns the outcome after the program has finished.
func (m Model) Decision() Decision {
	return m.decision
}

func (m Model) Init() tea.Cmd {
	if m.opts.ShowCountdown && !m.opts.Deadline.IsZero() {
		return scheduleTick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.decision = DecisionApproved
			return m, tea.Quit
		case "n", "N", "esc", "q", "ctrl+c":
			m.decision = DecisionDenied
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.remaining = time.Until(m.opts.Deadline)
		if m.remaining <= 0 {
			m.remaining = 0
			return m, nil
		}
		return m, scheduleTick()
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := "Approval required"
	if m.opts.TotalStages > 1 {
		title += "  " + stageStyle.Render(fmt.Sprintf("confirmation %d of %d", m.opts.Stage, m.opts.TotalStages))
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Operation  "))
	b.WriteString(valueStyle.Render(m.opts.OperationType))
	b.WriteString("  ")
	b.WriteString(riskStyle(m.opts.RiskLevel).Render("[" + m.opts.RiskLevel + "]"))
	b.WriteString("\n")

	if m.opts.Target != "" {
		b.WriteString(labelStyle.Render("Target     "))
		b.WriteString(valueStyle.Render(m.opts.Target))
		b.WriteString("\n")
	}

	if m.opts.Description != "" {
		b.WriteString(labelStyle.Render("Action     "))
		b.WriteString(valueStyle.Render(m.opts.Description))
		b.WriteString("\n")
	}

	if len(m.opts.StatedRisks) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Risks:"))
		b.WriteString("\n")
		for _, risk := range m.opts.StatedRisks {
			b.WriteString("  " + warningStyle.Render("- "+risk))
			b.WriteString("\n")
		}
	}

	if m.opts.Preview != "" {
		b.WriteString("\n")
		b.WriteString(previewStyle.Render(m.opts.Preview))
		b.WriteString("\n")
	}

	if m.opts.TimeoutWarning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.opts.TimeoutWarning))
		b.WriteString("\n")
	}

	if m.opts.ShowCountdown && !m.opts.Deadline.IsZero() {
		b.WriteString("\n")
		b.WriteString(countdownStyle.Render(fmt.Sprintf("auto-deny in %ds", int(m.remaining.Seconds()))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("y approve  *  n deny"))

	return boxStyle.Render(b.String())
}

func scheduleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
