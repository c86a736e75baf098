// ABOUTME: Tests for folding analyzer snapshots into records
// ABOUTME: Covers full-replace third-party sync, opportunity replacement, alias suppression and idempotence
package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/models"
)

var reconcileNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func recordWith(modules []models.ProductEntry, thirdParty []models.ThirdPartySolution) models.CustomerRecord {
	rec := models.CustomerRecord{ID: "cust-1", Name: "Acme", LastEdited: "2025-01-01"}
	rec.Data.General = models.Attributes{models.AttrIndustry: "Retail"}
	rec.Data.Modules = modules
	rec.Data.ThirdParty = thirdParty
	rec.Data.Overview.GeneralNotes = "keep me"
	return rec.Clone()
}

func TestThirdPartySyncFullReplace(t *testing.T) {
	rec := recordWith(nil, []models.ThirdPartySolution{
		{SolutionName: "A", Purpose: "Tax", ConnectedToNS: models.ConnectedIntegrated, ConnectorName: "old", Notes: "local note"},
		{SolutionName: "B", Purpose: "Payroll"},
		{SolutionName: "C", Purpose: "Shipping"},
	})

	out := ApplyThirdPartySync(rec, []InboundSolution{
		{SolutionName: "A", Purpose: "Tax", ConnectorName: strPtr("Celigo")},
		{SolutionName: "D", Purpose: "CRM", ConnectedToNS: strPtr(models.ConnectedManual)},
	}, reconcileNow)

	require.Len(t, out.Data.ThirdParty, 2)
	assert.Equal(t, models.ThirdPartySolution{
		SolutionName: "A", Purpose: "Tax", ConnectedToNS: models.ConnectedIntegrated, ConnectorName: "Celigo", Notes: "local note",
	}, out.Data.ThirdParty[0])
	assert.Equal(t, models.ThirdPartySolution{SolutionName: "D", Purpose: "CRM", ConnectedToNS: models.ConnectedManual}, out.Data.ThirdParty[1])

	assert.Equal(t, "2025-07-01", out.LastEdited)
	assert.Equal(t, "keep me", out.Data.Overview.GeneralNotes)
	assert.Len(t, rec.Data.ThirdParty, 3, "input record is not mutated")
}

func TestThirdPartySyncIgnoresBlankNames(t *testing.T) {
	rec := recordWith(nil, []models.ThirdPartySolution{{SolutionName: "A", Purpose: "Tax"}})
	out := ApplyThirdPartySync(rec, []InboundSolution{{SolutionName: "  ", Purpose: "Tax"}, {Purpose: "x"}}, reconcileNow)
	assert.Empty(t, out.Data.ThirdParty)
}

func TestThirdPartySyncIdempotent(t *testing.T) {
	rec := recordWith(nil, []models.ThirdPartySolution{{SolutionName: "A", Purpose: "Tax", Notes: "n"}})
	msg := []InboundSolution{
		{SolutionName: "A", Purpose: "Tax", ConnectedToNS: strPtr(models.ConnectedBoth)},
		{SolutionName: "E", Purpose: "EDI"},
	}

	once := ApplyThirdPartySync(rec, msg, reconcileNow)
	twice := ApplyThirdPartySync(once, msg, reconcileNow)
	assert.Equal(t, once.Data.ThirdParty, twice.Data.ThirdParty)
}

func TestEvaluationSyncScenarios(t *testing.T) {
	t.Run("alias already licensed", func(t *testing.T) {
		rec := recordWith([]models.ProductEntry{{Name: "ACS Monitor", Status: models.StatusLicensed}}, nil)
		out := ApplyEvaluationSync(rec, []Evaluation{{Name: "ACS", ProcessArea: "Support"}}, reconcileNow)
		assert.Equal(t, rec.Data.Modules, out.Data.Modules)
	})

	t.Run("sibling alias is still a candidate", func(t *testing.T) {
		rec := recordWith([]models.ProductEntry{{Name: "ACS Optimize", Status: models.StatusLicensed}}, nil)
		out := ApplyEvaluationSync(rec, []Evaluation{{Name: "ACS Monitor", ProcessArea: "Support"}}, reconcileNow)
		require.Len(t, out.Data.Modules, 2)
		assert.Equal(t, "ACS Monitor", out.Data.Modules[1].Name)
		assert.True(t, out.Data.Modules[1].IsPotential())
	})

	t.Run("new opportunity appended", func(t *testing.T) {
		rec := recordWith(nil, nil)
		out := ApplyEvaluationSync(rec, []Evaluation{{Name: "CRM", ProcessArea: "CRM + Marketing"}}, reconcileNow)
		assert.Equal(t, []models.ProductEntry{
			{Name: "CRM", Status: models.StatusOpportunity, ProcessArea: "CRM + Marketing", Source: models.SourceAnalyzer},
		}, out.Data.Modules)
	})

	t.Run("empty snapshot clears analyzer opportunities", func(t *testing.T) {
		rec := recordWith([]models.ProductEntry{{Name: "CRM", Status: models.StatusOpportunity, Source: models.SourceAnalyzer}}, nil)
		out := ApplyEvaluationSync(rec, []Evaluation{}, reconcileNow)
		assert.Empty(t, out.Data.Modules)
		assert.Equal(t, "2025-07-01", out.LastEdited)
	})
}

func TestEvaluationSyncPreservesUserOpportunities(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "CPQ", Status: models.StatusOpportunity, ProcessArea: "Manufacturing"},
		{Name: "Dunning", Status: models.StatusOpportunity, Source: models.SourceAnalyzer},
		{Name: "CRM", Status: models.StatusLicensed},
	}, nil)

	out := ApplyEvaluationSync(rec, []Evaluation{{Name: "Payroll", ProcessArea: "HR + Payroll"}, {Name: "CPQ"}}, reconcileNow)

	assert.Equal(t, []models.ProductEntry{
		{Name: "CPQ", Status: models.StatusOpportunity, ProcessArea: "Manufacturing"},
		{Name: "CRM", Status: models.StatusLicensed},
		{Name: "Payroll", Status: models.StatusOpportunity, ProcessArea: "HR + Payroll", Source: models.SourceAnalyzer},
	}, out.Data.Modules)
}

func TestEvaluationSyncAliasOpportunityAndDuplicates(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "SuitePeople Payroll", Status: models.StatusOpportunity},
		{Name: "LCS Standard", Status: models.StatusDropped},
	}, nil)

	out := ApplyEvaluationSync(rec, []Evaluation{
		{Name: "Payroll"},
		{Name: "LCS", ProcessArea: "Support"},
		{Name: "LCS", ProcessArea: "Support"},
		{Name: "  "},
	}, reconcileNow)

	require.Len(t, out.Data.Modules, 3)
	assert.Equal(t, "LCS", out.Data.Modules[2].Name, "a dropped alias does not block the candidate")
	assert.True(t, out.Data.Modules[2].IsPotential())
}

func TestEvaluationSyncIdempotent(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "CRM", Status: models.StatusLicensed},
		{Name: "CPQ", Status: models.StatusOpportunity},
	}, nil)
	msg := []Evaluation{{Name: "Payroll", ProcessArea: "HR + Payroll"}, {Name: "SuiteBilling", ProcessArea: "Invoicing + Payment Processing"}}

	once := ApplyEvaluationSync(rec, msg, reconcileNow)
	twice := ApplyEvaluationSync(once, msg, reconcileNow)
	assert.Equal(t, once.Data.Modules, twice.Data.Modules)
}

func TestEvaluationSyncDoesNotResurrectDeletedEntries(t *testing.T) {
	rec := recordWith([]models.ProductEntry{{Name: "Payroll", Status: models.StatusOpportunity, Source: models.SourceAnalyzer}}, nil)

	// User deleted the entry; the next snapshot no longer lists it.
	rec.Data.Modules = nil
	out := ApplyEvaluationSync(rec, []Evaluation{{Name: "Dunning"}}, reconcileNow)
	require.Len(t, out.Data.Modules, 1)
	assert.Equal(t, "Dunning", out.Data.Modules[0].Name)
}
