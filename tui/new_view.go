// ABOUTME: New customer form
// ABOUTME: Creates a customer with the default licensed modules from a single name input
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/acctnotes/catalog"
)

func (m Model) renderNewView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("NEW CUSTOMER"))
	s.WriteString("\n")
	s.WriteString(m.nameInput.View())
	s.WriteString("\n")
	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.message))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("Enter: Create • Esc: Cancel"))
	return s.String()
}

func (m Model) handleNewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.nameInput.Blur()
		m.viewMode = ViewList
		m.message = ""
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.message = "Name is required"
			return m, nil
		}
		rec, err := m.store.Create(ctx(), name, catalog.DefaultModules())
		if err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.nameInput.Blur()
		m.refresh()
		m.selectedID = rec.ID
		m.viewMode = ViewDetail
		m.message = "Created " + rec.Name
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}
