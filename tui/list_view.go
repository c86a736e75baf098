// ABOUTME: Customer list view backed by a bubbles table
// ABOUTME: Supports incremental name search and opening, adding and deleting customers
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/acctnotes/models"
)

func newCustomerTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 32},
		{Title: "Last Edited", Width: 12},
		{Title: "Licensed", Width: 9},
		{Title: "Opps", Width: 6},
		{Title: "3rd Party", Width: 10},
	}
	return table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)
}

// refresh reloads customers matching the search into the table.
func (m *Model) refresh() {
	if m.searchQuery != "" {
		m.customers = m.store.Search(m.searchQuery)
	} else {
		m.customers = m.store.List()
	}

	rows := make([]table.Row, 0, len(m.customers))
	for _, rec := range m.customers {
		licensed, opps := 0, 0
		for _, mod := range rec.Data.Modules {
			switch mod.Status {
			case models.StatusLicensed:
				licensed++
			case models.StatusOpportunity:
				opps++
			}
		}
		rows = append(rows, table.Row{
			rec.Name,
			rec.LastEdited,
			fmt.Sprintf("%d", licensed),
			fmt.Sprintf("%d", opps),
			fmt.Sprintf("%d", len(rec.Data.ThirdParty)),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selectedCustomer() (models.CustomerRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.customers) {
		return models.CustomerRecord{}, false
	}
	return m.customers[i], true
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ACCOUNT NOTES"))
	s.WriteString("\n")

	if m.searching || m.searchQuery != "" {
		s.WriteString(m.search.View())
		s.WriteString("\n\n")
	}

	if len(m.customers) == 0 {
		s.WriteString("No customers found\n")
	} else {
		s.WriteString(m.table.View())
		s.WriteString("\n")
	}

	if m.message != "" {
		s.WriteString(messageStyle.Render(m.message))
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())
	return s.String()
}

func (m Model) renderListHelp() string {
	if m.searching {
		return helpStyle.Render("Enter: Apply • Esc: Clear search")
	}
	help := []string{
		"↑/↓: Navigate",
		"Enter: View details",
		"/: Search",
		"n: New",
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		if rec, ok := m.selectedCustomer(); ok {
			m.selectedID = rec.ID
			m.viewMode = ViewDetail
			m.message = ""
		}
		return m, nil
	case "/":
		m.searching = true
		m.search.Focus()
		return m, nil
	case "n":
		m.viewMode = ViewNew
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.message = ""
		return m, nil
	case "d":
		if rec, ok := m.selectedCustomer(); ok {
			m.selectedID = rec.ID
			m.viewMode = ViewConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.searchQuery = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.searchQuery = strings.TrimSpace(m.search.Value())
	m.table.SetCursor(0)
	m.refresh()
	return m, cmd
}
