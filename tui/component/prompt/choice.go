package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Choice is a single selectable alternative.
type Choice struct {
	Label       string
	Description string
}

// ChoiceModel is the bubbletea model for the alternatives menu shown after
// a rejection. Escape selects nothing.
type ChoiceModel struct {
	title    string
	choices  []Choice
	cursor   int
	selected string
}

// NewChoice creates a choice model.
func NewChoice(title string, choices []Choice) ChoiceModel {
	return ChoiceModel{
		title:   title,
		choices: choices,
	}
}

// Selected returns the chosen label, or "" when the user declined all.
func (m ChoiceModel) Selected() string {
	return m.selected
}

func (m ChoiceModel) Init() tea.Cmd {
	return nil
}

func (m ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.choices) > 0 {
				m.selected = m.choices[m.cursor].Label
			}
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.selected = ""
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ChoiceModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := "  "
		label := valueStyle.Render(choice.Label)
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			label = cursorStyle.Render(choice.Label)
		}

		b.WriteString(cursor + label)
		if choice.Description != "" {
			b.WriteString("  " + labelStyle.Render(choice.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter select  *  esc none"))

	return boxStyle.Render(b.String())
}
