// ABOUTME: Tests for the TUI model
// ABOUTME: Drives the model with key messages against an in-memory store
package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

func setupTestModel(t *testing.T) (*store.Store, Model) {
	t.Helper()
	st := store.New(&store.MemoryPersister{})
	ctx := context.Background()
	_, err := st.Create(ctx, "Acme", []models.ProductEntry{
		{Name: "CRM", Status: models.StatusLicensed, ProcessArea: "CRM + Marketing"},
		{Name: "Payroll", Status: models.StatusOpportunity, ProcessArea: "HR + Payroll", Source: models.SourceAnalyzer},
	})
	require.NoError(t, err)
	_, err = st.Create(ctx, "Globex", nil)
	require.NoError(t, err)
	return st, NewModel(st)
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestListViewShowsCustomers(t *testing.T) {
	_, m := setupTestModel(t)

	view := m.View()
	assert.Contains(t, view, "ACCOUNT NOTES")
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Globex")
}

func TestDetailViewGroupsModules(t *testing.T) {
	_, m := setupTestModel(t)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.viewMode)

	view := m.View()
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Licensed (1)")
	assert.Contains(t, view, catalog.GroupPotential+" (1)")
	assert.Contains(t, view, "Analyzer view")

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.viewMode)
}

func TestSearchFiltersList(t *testing.T) {
	_, m := setupTestModel(t)

	m = send(m, keys("/"), keys("g"), keys("l"))
	assert.True(t, m.searching)
	require.Len(t, m.customers, 1)
	assert.Equal(t, "Globex", m.customers[0].Name)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)
	assert.Len(t, m.customers, 1)

	m = send(m, keys("/"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.customers, 2)
}

func TestCreateCustomer(t *testing.T) {
	st, m := setupTestModel(t)

	m = send(m, keys("n"))
	require.Equal(t, ViewNew, m.viewMode)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Name is required", m.message)

	m = send(m, keys("Initech"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Len(t, st.List(), 3)

	rec, err := st.Get(m.selectedID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", rec.Name)
	assert.Len(t, rec.Data.Modules, len(catalog.DefaultModules()))
}

func TestDeleteCustomer(t *testing.T) {
	st, m := setupTestModel(t)

	m = send(m, keys("d"))
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "CUSTOMER: Acme")

	m = send(m, keys("n"))
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, st.List(), 2)

	m = send(m, keys("d"), keys("y"))
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "Deleted Acme", m.message)
	require.Len(t, st.List(), 1)
	assert.Len(t, m.customers, 1)
}

func TestStoreChangeRefreshesList(t *testing.T) {
	st, m := setupTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	id := m.selectedID

	require.NoError(t, st.Delete(context.Background(), id))
	m = send(m, storeChangedMsg{})
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, m.customers, 1)
}
