// ABOUTME: Tests for the MCP tool, resource and prompt handlers
// ABOUTME: Handlers are called directly against an in-memory store
package handlers

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

func setupHandlers(t *testing.T) (*store.Store, *analyzer.Session) {
	t.Helper()
	st := store.New(&store.MemoryPersister{})
	session := analyzer.NewSession(st)
	t.Cleanup(session.Close)
	return st, session
}

func TestAddAndListCustomers(t *testing.T) {
	st, _ := setupHandlers(t)
	h := NewCustomerHandlers(st)
	ctx := context.Background()

	_, out, err := h.AddCustomer(ctx, nil, AddCustomerInput{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Customer.Name)
	assert.Len(t, out.Customer.Data.Modules, 18)

	_, _, err = h.AddCustomer(ctx, nil, AddCustomerInput{Name: "Globex", SkipDefaults: true})
	require.NoError(t, err)

	_, _, err = h.AddCustomer(ctx, nil, AddCustomerInput{})
	assert.Error(t, err)

	_, list, err := h.ListCustomers(ctx, nil, ListCustomersInput{})
	require.NoError(t, err)
	require.Len(t, list.Customers, 2)
	assert.Equal(t, 18, list.Customers[0].Licensed)

	_, list, err = h.ListCustomers(ctx, nil, ListCustomersInput{Query: "glob"})
	require.NoError(t, err)
	require.Len(t, list.Customers, 1)
	assert.Equal(t, "Globex", list.Customers[0].Name)
	assert.Equal(t, 0, list.Customers[0].Licensed)
}

func TestSetModuleStatusAndThirdParty(t *testing.T) {
	st, _ := setupHandlers(t)
	ctx := context.Background()
	_, err := st.Create(ctx, "Acme", nil)
	require.NoError(t, err)

	h := NewModuleHandlers(st)
	_, out, err := h.SetModuleStatus(ctx, nil, SetModuleStatusInput{Customer: "acme", Module: "CPQ", Status: models.StatusOpportunity})
	require.NoError(t, err)
	require.Len(t, out.Modules, 1)
	assert.Equal(t, "CPQ", out.Modules[0].Name)

	_, _, err = h.SetModuleStatus(ctx, nil, SetModuleStatusInput{Customer: "acme", Module: "CPQ", Status: "Maybe"})
	assert.Error(t, err)

	_, _, err = h.SetModuleStatus(ctx, nil, SetModuleStatusInput{Customer: "nobody", Module: "CPQ"})
	assert.ErrorIs(t, err, store.ErrCustomerNotFound)

	_, tp, err := h.AddThirdParty(ctx, nil, AddThirdPartyInput{Customer: "Acme", SolutionName: "Avalara", Purpose: "Tax", ConnectedToNS: models.ConnectedIntegrated})
	require.NoError(t, err)
	assert.Equal(t, []models.ThirdPartySolution{{SolutionName: "Avalara", Purpose: "Tax", ConnectedToNS: models.ConnectedIntegrated}}, tp.ThirdParty)

	_, _, err = h.AddThirdParty(ctx, nil, AddThirdPartyInput{Customer: "Acme", SolutionName: "X", ConnectedToNS: "sometimes"})
	assert.Error(t, err)
}

func TestAnalyzerTools(t *testing.T) {
	st, session := setupHandlers(t)
	ctx := context.Background()
	_, err := st.Create(ctx, "Acme", []models.ProductEntry{
		{Name: "ACS Monitor", Status: models.StatusLicensed, ProcessArea: "Support"},
	})
	require.NoError(t, err)

	h := NewAnalyzerHandlers(st, session)

	_, proj, err := h.ProjectCustomer(ctx, nil, ProjectCustomerInput{Customer: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "ACS", proj.Projection.Licensed)
	assert.Empty(t, proj.Opportunities)

	msg := `{"type":"EVALUATION_UPDATE","evaluations":[{"name":"ACS"},{"name":"Payroll","processArea":"HR + Payroll"}]}`
	_, out, err := h.ApplyAnalyzerMessage(ctx, nil, ApplyAnalyzerMessageInput{Customer: "Acme", Message: msg})
	require.NoError(t, err)
	assert.Equal(t, string(analyzer.OutcomeApplied), out.Outcome)
	require.Len(t, out.Modules, 2)
	assert.True(t, out.Modules[1].IsPotential())

	_, _, err = h.ApplyAnalyzerMessage(ctx, nil, ApplyAnalyzerMessageInput{Customer: "Acme", Message: `{"type":"EVALUATION_UPDATE"}`})
	assert.ErrorIs(t, err, analyzer.ErrMalformedMessage)
}

func TestApplyAnalyzerMessageConcurrentCustomers(t *testing.T) {
	st, session := setupHandlers(t)
	ctx := context.Background()
	acme, err := st.Create(ctx, "Acme", nil)
	require.NoError(t, err)
	globex, err := st.Create(ctx, "Globex", nil)
	require.NoError(t, err)

	h := NewAnalyzerHandlers(st, session)
	update := func(name string) string {
		return `{"type":"THIRD_PARTY_UPDATE","customSolutions":[{"solutionName":"For` + name + `","purpose":"Tax"}]}`
	}

	for round := 0; round < 200; round++ {
		var wg sync.WaitGroup
		for _, name := range []string{"Acme", "Globex"} {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_, _, err := h.ApplyAnalyzerMessage(ctx, nil, ApplyAnalyzerMessageInput{Customer: name, Message: update(name)})
				assert.NoError(t, err)
			}(name)
		}
		wg.Wait()

		for id, name := range map[models.RecordID]string{acme.ID: "Acme", globex.ID: "Globex"} {
			rec, err := st.Get(id)
			require.NoError(t, err)
			require.Equal(t, []models.ThirdPartySolution{{SolutionName: "For" + name, Purpose: "Tax"}}, rec.Data.ThirdParty, "round %d", round)
		}
	}
	assert.Equal(t, models.RecordID(""), session.Selected(), "applying never changes the selection")
}

func TestReadResource(t *testing.T) {
	st, _ := setupHandlers(t)
	rec, err := st.Create(context.Background(), "Acme", nil)
	require.NoError(t, err)
	h := NewResourceHandlers(st)

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("acctnotes://customers")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"name": "Acme"`)

	res, err = read("acctnotes://customers/" + rec.ID.String())
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, rec.ID.String())

	res, err = read("acctnotes://library")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Support")

	_, err = read("crm://contacts")
	assert.Error(t, err)
	_, err = read("acctnotes://deals")
	assert.Error(t, err)
}

func TestAccountReviewPrompt(t *testing.T) {
	st, _ := setupHandlers(t)
	ctx := context.Background()
	rec, err := st.Create(ctx, "Acme", []models.ProductEntry{{Name: "CRM", Status: models.StatusLicensed}})
	require.NoError(t, err)
	_, err = st.SetGeneral(ctx, rec.ID, models.AttrTier, "Premium")
	require.NoError(t, err)

	h := NewPromptHandlers(st)
	res, err := h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{
		Name:      "account-review",
		Arguments: map[string]string{"customer": "Acme"},
	}})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.True(t, strings.Contains(text, "Customer: Acme"))
	assert.Contains(t, text, "tier: Premium")
	assert.Contains(t, text, "Licensed: CRM")
	assert.Contains(t, text, "Opportunities: none")

	_, err = h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "nope"}})
	assert.Error(t, err)
}

func TestNewServerRegistersTools(t *testing.T) {
	st, session := setupHandlers(t)
	assert.NotNil(t, NewServer(st, session, "test"))
}
