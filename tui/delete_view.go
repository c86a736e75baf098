// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Asks before removing a customer and returns to the list afterwards
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	rec, err := m.store.Get(m.selectedID)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error loading customer: %v", err))
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠"),
		"",
		"Are you sure you want to delete this customer?",
		"",
		"CUSTOMER: "+rec.Name,
		"",
		"This action cannot be undone!",
		"",
		buttons,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBoxStyle.Render(content))
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		rec, _ := m.store.Get(m.selectedID)
		if err := m.store.Delete(ctx(), m.selectedID); err != nil {
			m.message = "Error: " + err.Error()
		} else {
			m.message = "Deleted " + rec.Name
		}
		m.viewMode = ViewList
		m.selectedID = ""
		m.refresh()
	case "n", "N", "esc":
		m.viewMode = ViewList
		m.selectedID = ""
	}

	return m, nil
}
