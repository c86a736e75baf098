// ABOUTME: Customer detail view
// ABOUTME: Shows general attributes, modules grouped by status, third-party solutions and the analyzer projection
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
)

func (m Model) renderDetailView() string {
	rec, err := m.store.Get(m.selectedID)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err)) + "\n" + m.renderDetailHelp()
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(rec.Name))
	s.WriteString("\n")
	s.WriteString(field("Last edited", rec.LastEdited))

	if len(rec.Data.General) > 0 {
		keys := make([]string, 0, len(rec.Data.General))
		for k := range rec.Data.General {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.WriteString(field(k, rec.Data.General[k]))
		}
	}
	if notes := rec.Data.Overview.GeneralNotes; notes != "" {
		s.WriteString(field("Notes", notes))
	}

	for _, group := range catalog.GroupModules(rec.Data.Modules) {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%d)", group.Label, len(group.Modules))))
		s.WriteString("\n")
		for _, mod := range group.Modules {
			s.WriteString("  " + moduleLine(mod) + "\n")
		}
	}

	if len(rec.Data.ThirdParty) > 0 {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render("Third-party solutions"))
		s.WriteString("\n")
		for _, tp := range rec.Data.ThirdParty {
			line := tp.SolutionName
			if tp.Purpose != "" {
				line += " · " + tp.Purpose
			}
			if tp.ConnectedToNS != "" {
				line += " [" + tp.ConnectedToNS + "]"
			}
			s.WriteString("  " + line + "\n")
		}
	}

	proj := analyzer.Project(rec)
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("Analyzer view"))
	s.WriteString("\n")
	s.WriteString(field("Licensed", proj.Licensed))
	s.WriteString(field("Opportunities", proj.Opportunities))
	if proj.Users > 0 {
		s.WriteString(field("Users", fmt.Sprintf("%d", proj.Users)))
	}

	if m.message != "" {
		s.WriteString("\n")
		s.WriteString(messageStyle.Render(m.message))
		s.WriteString("\n")
	}

	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value + "\n"
}

func moduleLine(mod models.ProductEntry) string {
	line := mod.Name
	if mod.Quantity > 0 {
		line += fmt.Sprintf(" x%d", mod.Quantity)
	}
	if mod.ProcessArea != "" {
		line += "  (" + mod.ProcessArea + ")"
	}
	return line
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"o: Reorder modules",
		"d: Delete",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.viewMode = ViewList
		m.message = ""
	case "d":
		m.viewMode = ViewConfirmDelete
	case "o":
		if _, err := m.store.ReorderModules(ctx(), m.selectedID); err != nil {
			m.message = "Error: " + err.Error()
		} else {
			m.message = "Modules reordered"
		}
	}
	return m, nil
}
