// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Browses customers, shows grouped module status and handles add/delete
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewNew
	ViewConfirmDelete
)

// storeChangedMsg is sent when the store publishes a change.
type storeChangedMsg struct{}

// Model is the main bubbletea model
type Model struct {
	store    *store.Store
	viewMode ViewMode

	// List view state
	table       table.Model
	customers   []models.CustomerRecord
	search      textinput.Model
	searching   bool
	searchQuery string

	// Detail view state
	selectedID models.RecordID

	// New customer form
	nameInput textinput.Model

	// Status line shown under the current view
	message string

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(st *store.Store) Model {
	search := textinput.New()
	search.Placeholder = "search customers"
	search.Prompt = "/ "

	name := textinput.New()
	name.Placeholder = "Customer name"
	name.CharLimit = 120

	m := Model{
		store:     st,
		viewMode:  ViewList,
		table:     newCustomerTable(),
		search:    search,
		nameInput: name,
		width:     80,
		height:    24,
	}
	m.refresh()
	return m
}

// Run starts the full-screen browser and blocks until it exits.
func Run(st *store.Store) error {
	p := tea.NewProgram(NewModel(st), tea.WithAltScreen())

	// Changes are published synchronously, sometimes from inside Update, so
	// the redraw is posted from a separate goroutine.
	unsubscribe := st.Subscribe(func(store.Change) { go p.Send(storeChangedMsg{}) })
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil
	case storeChangedMsg:
		m.refresh()
		if m.viewMode != ViewList && m.selectedID != "" {
			if _, err := m.store.Get(m.selectedID); err != nil {
				m.viewMode = ViewList
				m.selectedID = ""
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewNew:
		return m.renderNewView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewNew:
		return m.handleNewKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) tableHeight() int {
	if h := m.height - 10; h > 3 {
		return h
	}
	return 3
}

func ctx() context.Context {
	return context.Background()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(16)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
