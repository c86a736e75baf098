// ABOUTME: Tests for the customer record store
// ABOUTME: Covers CRUD, copy-on-write publishing, module edits and persistence failures
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/observability"
)

func setupTestStore(t *testing.T) (*Store, *MemoryPersister, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	p := &MemoryPersister{}
	return New(p, WithClock(clk), WithMetrics(observability.NewMetrics())), p, clk
}

func TestCreateAndGet(t *testing.T) {
	s, p, _ := setupTestStore(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, "  Acme Corp ", catalog.DefaultModules())
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", rec.Name)
	assert.Equal(t, "2025-06-02", rec.LastEdited)
	assert.Len(t, rec.Data.Modules, len(catalog.DefaultModules()))

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 1, p.Saves())

	_, err = s.Create(ctx, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestListSortedByName(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"zeta", "Alpha", "beta"} {
		_, err := s.Create(ctx, n, nil)
		require.NoError(t, err)
	}

	var names []string
	for _, c := range s.List() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)
	assert.Len(t, s.Search("ET"), 2)
}

func TestResolve(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)
	_, _ = s.Create(ctx, "Twin", nil)
	_, _ = s.Create(ctx, "twin", nil)

	got, err := s.Resolve(rec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	got, err = s.Resolve("ACME")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = s.Resolve("twin")
	assert.ErrorIs(t, err, ErrAmbiguousName)

	_, err = s.Resolve("nobody")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUpdateIsCopyOnWrite(t *testing.T) {
	s, _, clk := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", []models.ProductEntry{{Name: "CRM", Status: models.StatusLicensed}})

	var changes []Change
	unsub := s.Subscribe(func(c Change) { changes = append(changes, c) })
	defer unsub()

	clk.Add(48 * time.Hour)
	updated, err := s.Update(ctx, rec.ID, func(r models.CustomerRecord) (models.CustomerRecord, error) {
		r.ID = "tampered"
		r.Data.Modules[0].Status = models.StatusDropped
		return r, nil
	})
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, "2025-06-04", updated.LastEdited)
	assert.Equal(t, models.StatusLicensed, rec.Data.Modules[0].Status, "earlier copies never change")

	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUpdated, changes[0].Kind)
	assert.Equal(t, models.StatusLicensed, changes[0].Before.Data.Modules[0].Status)
	assert.Equal(t, models.StatusDropped, changes[0].After.Data.Modules[0].Status)

	// Mutating a published copy must not leak into the store.
	changes[0].After.Data.Modules[0].Status = models.StatusLost
	got, _ := s.Get(rec.ID)
	assert.Equal(t, models.StatusDropped, got.Data.Modules[0].Status)
}

func TestUpdateErrorLeavesRecord(t *testing.T) {
	s, p, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)
	saves := p.Saves()

	boom := errors.New("boom")
	_, err := s.Update(ctx, rec.ID, func(r models.CustomerRecord) (models.CustomerRecord, error) {
		r.Name = "Changed"
		return r, boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.Get(rec.ID)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, saves, p.Saves())

	_, err = s.Update(ctx, "missing", func(r models.CustomerRecord) (models.CustomerRecord, error) { return r, nil })
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestRenameSetGeneralAndDelete(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)

	rec, err := s.Rename(ctx, rec.ID, "Acme Holdings")
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", rec.Name)
	assert.Equal(t, "Acme Holdings", rec.Data.Overview.CustomerName)

	rec, err = s.SetGeneral(ctx, rec.ID, models.AttrTier, "Premium")
	require.NoError(t, err)
	assert.Equal(t, "Premium", rec.Data.General.Get(models.AttrTier))

	rec, err = s.SetGeneral(ctx, rec.ID, models.AttrTier, "")
	require.NoError(t, err)
	_, ok := rec.Data.General[models.AttrTier]
	assert.False(t, ok)

	rec, err = s.SetNotes(ctx, rec.ID, "renewal in Q3")
	require.NoError(t, err)
	assert.Equal(t, "renewal in Q3", rec.Data.Overview.GeneralNotes)

	require.NoError(t, s.Delete(ctx, rec.ID))
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), ErrCustomerNotFound)
	assert.Empty(t, s.List())
}

func TestPersistFailureDoesNotBlockEdits(t *testing.T) {
	s, p, _ := setupTestStore(t)
	ctx := context.Background()
	metrics := observability.NewMetrics()
	s.metrics = metrics

	p.Err = errors.New("quota exceeded")
	rec, err := s.Create(ctx, "Acme", nil)
	require.NoError(t, err)
	assert.Error(t, s.LastSaveError())
	assert.Equal(t, 1.0, metrics.PersistFailures())

	_, err = s.SetGeneral(ctx, rec.ID, models.AttrIndustry, "Retail")
	require.NoError(t, err)
	got, _ := s.Get(rec.ID)
	assert.Equal(t, "Retail", got.Data.General.Get(models.AttrIndustry))

	p.Err = nil
	require.NoError(t, s.Flush(ctx))
	assert.NoError(t, s.LastSaveError())
}

func TestLoadRoundTrip(t *testing.T) {
	s, p, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", catalog.DefaultModules())

	fresh := New(p)
	require.NoError(t, fresh.Load(ctx))
	got, err := fresh.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestReplaceAllAndAppend(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	_, _ = s.Create(ctx, "Old", nil)

	var kinds []ChangeKind
	s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	err := s.ReplaceAll(ctx, []models.CustomerRecord{{ID: "1", Name: "One"}, {ID: "2", Name: "Two"}})
	require.NoError(t, err)
	assert.Len(t, s.List(), 2)

	err = s.ReplaceAll(ctx, []models.CustomerRecord{{ID: "1"}, {ID: "1"}})
	assert.Error(t, err)
	assert.Len(t, s.List(), 2, "failed restore leaves the store untouched")

	require.NoError(t, s.Append(ctx, []models.CustomerRecord{{ID: "3", Name: "Three"}}))
	assert.Error(t, s.Append(ctx, []models.CustomerRecord{{ID: "3", Name: "Again"}}))
	assert.Len(t, s.List(), 3)
	assert.Equal(t, []ChangeKind{ChangeReplaced, ChangeReplaced}, kinds)
}

func TestSetModuleStatus(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)

	rec, err := s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "SuitePeople Payroll", Status: models.StatusOpportunity})
	require.NoError(t, err)
	require.Len(t, rec.Data.Modules, 1)
	assert.Equal(t, "HR + Payroll", rec.Data.Modules[0].ProcessArea)
	assert.Zero(t, rec.Data.Modules[0].Quantity)

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "SuitePeople Payroll", Status: models.StatusLicensed})
	require.NoError(t, err)
	require.Len(t, rec.Data.Modules, 1, "one entry per name")
	assert.Equal(t, models.StatusLicensed, rec.Data.Modules[0].Status)

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "SuitePeople Payroll"})
	require.NoError(t, err)
	assert.Empty(t, rec.Data.Modules)

	_, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "CRM", Status: "Pending"})
	assert.Error(t, err)
	_, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Status: models.StatusLicensed})
	assert.Error(t, err)
}

func TestSetModuleStatusUserQuantity(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)

	rec, err := s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: catalog.FullLicenceUsers, Status: models.StatusLicensed})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Data.Modules[0].Quantity)

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: catalog.FullLicenceUsers, Status: models.StatusLicensed, Quantity: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Data.Modules[0].Quantity)

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: catalog.FullLicenceUsers, Status: models.StatusOpportunity})
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Data.Modules[0].Quantity, "existing quantity is kept")

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "EPM Users", Status: models.StatusDropped})
	require.NoError(t, err)
	assert.Zero(t, rec.Data.Modules[1].Quantity)
}

func TestSourceTagStrippedOnStatusChange(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", []models.ProductEntry{
		{Name: "CPQ", Status: models.StatusOpportunity, Source: models.SourceAnalyzer},
		{Name: "Dunning", Status: models.StatusOpportunity, Source: models.SourceAnalyzer},
	})

	rec, err := s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "CPQ", Status: models.StatusOpportunity, ProcessArea: "Manufacturing"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceAnalyzer, rec.Data.Modules[0].Source)

	rec, err = s.SetModuleStatus(ctx, rec.ID, ModuleChange{Name: "CPQ", Status: models.StatusLicensed})
	require.NoError(t, err)
	assert.Empty(t, rec.Data.Modules[0].Source)

	rec, err = s.PromoteOpportunity(ctx, rec.ID, "Dunning")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpportunity, rec.Data.Modules[1].Status)
	assert.Empty(t, rec.Data.Modules[1].Source)

	_, err = s.PromoteOpportunity(ctx, rec.ID, "Dunning")
	assert.ErrorIs(t, err, ErrNotPotential)
	_, err = s.PromoteOpportunity(ctx, rec.ID, "Nope")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestRemoveAndReorderModules(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", []models.ProductEntry{
		{Name: "Full Licence Users", ProcessArea: "Users", Status: models.StatusLicensed},
		{Name: "CRM", ProcessArea: "CRM + Marketing", Status: models.StatusLicensed},
	})

	rec, err := s.ReorderModules(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "CRM", rec.Data.Modules[0].Name)

	rec, err = s.RemoveModule(ctx, rec.ID, "CRM")
	require.NoError(t, err)
	assert.Len(t, rec.Data.Modules, 1)

	_, err = s.RemoveModule(ctx, rec.ID, "CRM")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestThirdPartyEdits(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()
	rec, _ := s.Create(ctx, "Acme", nil)

	rec, err := s.AddThirdParty(ctx, rec.ID, models.ThirdPartySolution{SolutionName: "Avalara", Purpose: "Tax", ConnectedToNS: models.ConnectedIntegrated})
	require.NoError(t, err)
	rec, err = s.AddThirdParty(ctx, rec.ID, models.ThirdPartySolution{SolutionName: "Avalara", Purpose: "Tax", ConnectedToNS: models.ConnectedManual})
	require.NoError(t, err)
	require.Len(t, rec.Data.ThirdParty, 1)
	assert.Equal(t, models.ConnectedManual, rec.Data.ThirdParty[0].ConnectedToNS)

	_, err = s.AddThirdParty(ctx, rec.ID, models.ThirdPartySolution{SolutionName: "X", ConnectedToNS: "sometimes"})
	assert.Error(t, err)
	_, err = s.AddThirdParty(ctx, rec.ID, models.ThirdPartySolution{SolutionName: "  "})
	assert.Error(t, err)

	rec, err = s.RemoveThirdParty(ctx, rec.ID, "Avalara", "Tax")
	require.NoError(t, err)
	assert.Empty(t, rec.Data.ThirdParty)

	_, err = s.RemoveThirdParty(ctx, rec.ID, "Avalara", "Tax")
	assert.ErrorIs(t, err, ErrThirdPartyNotFound)
}
