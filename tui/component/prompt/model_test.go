package prompt

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPromptDecisions(t *testing.T) {
	tests := []struct {
		key  string
		want Decision
	}{
		{"y", DecisionApproved},
		{"Y", DecisionApproved},
		{"enter", DecisionApproved},
		{"n", DecisionDenied},
		{"N", DecisionDenied},
		{"esc", DecisionDenied},
		{"q", DecisionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := New(Options{OperationType: "file_write", RiskLevel: "high"})

			updated, cmd := m.Update(keyMsg(tt.key))
			require.NotNil(t, cmd, "answering must quit the program")

			final, ok := updated.(Model)
			require.True(t, ok)
			assert.Equal(t, tt.want, final.Decision())
		})
	}
}

func TestPromptIgnoresOtherKeys(t *testing.T) {
	m := New(Options{OperationType: "file_write", RiskLevel: "low"})

	updated, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, DecisionPending, updated.(Model).Decision())
}

func TestPromptViewShowsStageAndRisks(t *testing.T) {
	m := New(Options{
		OperationType: "package_install",
		Target:        "leftpad",
		RiskLevel:     "critical",
		Stage:         2,
		TotalStages:   3,
		StatedRisks:   []string{"installs third-party code", "may run install scripts"},
	})

	view := m.View()
	assert.Contains(t, view, "confirmation 2 of 3")
	assert.Contains(t, view, "package_install")
	assert.Contains(t, view, "installs third-party code")
}

func TestPromptCountdown(t *testing.T) {
	m := New(Options{
		OperationType: "file_delete",
		RiskLevel:     "high",
		Deadline:      time.Now().Add(30 * time.Second),
		ShowCountdown: true,
	})

	require.NotNil(t, m.Init(), "countdown prompts schedule a tick")
	assert.Contains(t, m.View(), "auto-deny in")

	updated, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "ticks continue while time remains")
	assert.Equal(t, DecisionPending, updated.(Model).Decision())
}

func TestChoiceNavigationAndSelection(t *testing.T) {
	m := NewChoice("Alternatives", []Choice{
		{Label: "preview"},
		{Label: "different location/name"},
		{Label: "safe location"},
	})

	updated, _ := m.Update(keyMsg("j"))
	updated, _ = updated.(ChoiceModel).Update(keyMsg("j"))
	updated, cmd := updated.(ChoiceModel).Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	assert.Equal(t, "safe location", updated.(ChoiceModel).Selected())
}

func TestChoiceEscapeSelectsNothing(t *testing.T) {
	m := NewChoice("Alternatives", []Choice{{Label: "preview"}})

	updated, cmd := m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Empty(t, updated.(ChoiceModel).Selected())
}
