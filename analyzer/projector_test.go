// ABOUTME: Tests for projecting records into the analyzer vocabulary
// ABOUTME: Verifies normalization, allow-list filtering, de-duplication and wire encoding
package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/models"
)

func TestProjectCollapsesAliases(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "ACS Monitor", Status: models.StatusLicensed},
		{Name: "ACS Architect", Status: models.StatusLicensed},
		{Name: "CRM", Status: models.StatusLicensed},
		{Name: "Prompt Studio", Status: models.StatusLicensed},
	}, nil)

	proj := Project(rec)
	assert.Equal(t, "ACS, CRM", proj.Licensed)
	assert.Equal(t, 1, strings.Count(proj.Licensed, "ACS"))
}

func TestProjectOpportunitiesHaveNoDuplicates(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "LCS Standard", Status: models.StatusOpportunity},
		{Name: "LCS Premium", Status: models.StatusOpportunity, Source: models.SourceAnalyzer},
		{Name: "LCS", Status: models.StatusOpportunity},
		{Name: "SuitePeople Payroll", Status: models.StatusOpportunity},
		{Name: "Bespoke Add-on", Status: models.StatusOpportunity},
		{Name: "Dunning", Status: models.StatusDropped},
	}, nil)

	proj := Project(rec)
	parts := strings.Split(proj.Opportunities, ", ")
	assert.Equal(t, []string{"LCS", "Payroll"}, parts)
	assert.Len(t, rec.Data.Modules, 6, "filtered names stay on the record")
}

func TestProjectAttributes(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "Full Licence Users", Status: models.StatusLicensed, Quantity: 42},
	}, []models.ThirdPartySolution{
		{SolutionName: "Avalara", Purpose: "Tax", ConnectedToNS: models.ConnectedBoth, ConnectorName: "SuiteApp"},
		{SolutionName: "Gusto", ConnectedToNS: models.ConnectedManual},
		{SolutionName: " ", Purpose: "ignored"},
	})
	rec.Data.General[models.AttrBaseSKU] = "Mid-Market"
	rec.Data.General[models.AttrTier] = "Premium"
	rec.Data.General[models.AttrIndustry] = "Healthcare NonProfit"

	proj := Project(rec)
	assert.Equal(t, "Acme", proj.CustomerName)
	assert.Equal(t, "Mid-Market", proj.Edition)
	assert.Equal(t, "Premium", proj.ServiceTier)
	assert.Equal(t, UserCount(42), proj.Users)
	assert.True(t, proj.IsNonprofit)
	assert.Equal(t, []CustomSolution{
		{Title: "Tax", Name: "Avalara (SuiteApp)", Integrated: true, Manual: true},
		{Title: DefaultSolutionTitle, Name: "Gusto", Integrated: false, Manual: true},
	}, proj.CustomSolutions)
}

func TestProjectUsersAbsentEncodesBlank(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "Full Licence Users", Status: models.StatusOpportunity, Quantity: 10},
	}, nil)

	data, err := json.Marshal(CustomerDataMessage{Type: TypeCustomerData, Projection: Project(rec)})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "", decoded["users"])
	assert.Equal(t, TypeCustomerData, decoded["type"])
	assert.Equal(t, []interface{}{}, decoded["customSolutions"])
	assert.Equal(t, false, decoded["isNonprofit"])
}

func TestOpportunitySync(t *testing.T) {
	rec := recordWith([]models.ProductEntry{
		{Name: "ACS Optimize", Status: models.StatusOpportunity, ProcessArea: "Support"},
		{Name: "ACS", Status: models.StatusOpportunity, ProcessArea: "Other"},
		{Name: "CRM", Status: models.StatusLicensed},
		{Name: "Prompt Studio", Status: models.StatusOpportunity},
		{Name: "Payroll", Status: models.StatusOpportunity, ProcessArea: "HR + Payroll", Source: models.SourceAnalyzer},
	}, nil)

	assert.Equal(t, []Opportunity{
		{Name: "ACS", ProcessArea: "Support"},
		{Name: "Payroll", ProcessArea: "HR + Payroll"},
	}, OpportunitySync(rec))

	assert.Equal(t, []Opportunity{}, OpportunitySync(recordWith(nil, nil)))
}

func TestThirdPartySyncDefaults(t *testing.T) {
	rec := recordWith(nil, []models.ThirdPartySolution{
		{SolutionName: "Avalara", Purpose: "Tax", Notes: "local"},
		{SolutionName: "Celigo", Purpose: "iPaaS", ConnectedToNS: models.ConnectedIntegrated, ConnectorName: "Integrator.io"},
	})

	assert.Equal(t, []OutboundSolution{
		{Purpose: "Tax", SolutionName: "Avalara", ConnectedToNS: models.ConnectedUnknown},
		{Purpose: "iPaaS", SolutionName: "Celigo", ConnectedToNS: models.ConnectedIntegrated, ConnectorName: "Integrator.io"},
	}, ThirdPartySync(rec))

	data, err := json.Marshal(ThirdPartyMessage{Type: TypeThirdPartyOut, Solutions: ThirdPartySync(rec)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"connectorName":""`)
}
