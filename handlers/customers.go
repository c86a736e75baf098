// ABOUTME: Customer MCP tool handlers
// ABOUTME: Implements list_customers and add_customer
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

type CustomerHandlers struct {
	store *store.Store
}

func NewCustomerHandlers(st *store.Store) *CustomerHandlers {
	return &CustomerHandlers{store: st}
}

type CustomerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LastEdited  string `json:"last_edited"`
	Licensed    int    `json:"licensed"`
	Opportunity int    `json:"opportunities"`
}

type ListCustomersInput struct {
	Query string `json:"query,omitempty" jsonschema:"Case-insensitive substring of the customer name"`
}

type ListCustomersOutput struct {
	Customers []CustomerSummary `json:"customers"`
}

func (h *CustomerHandlers) ListCustomers(_ context.Context, _ *mcp.CallToolRequest, input ListCustomersInput) (*mcp.CallToolResult, ListCustomersOutput, error) {
	var records []models.CustomerRecord
	if input.Query != "" {
		records = h.store.Search(input.Query)
	} else {
		records = h.store.List()
	}

	out := ListCustomersOutput{Customers: make([]CustomerSummary, 0, len(records))}
	for _, rec := range records {
		out.Customers = append(out.Customers, summarize(rec))
	}
	return nil, out, nil
}

type AddCustomerInput struct {
	Name         string `json:"name" jsonschema:"Customer name (required)"`
	SkipDefaults bool   `json:"skip_defaults,omitempty" jsonschema:"Start with no modules instead of the default licensed set"`
}

type CustomerOutput struct {
	Customer models.CustomerRecord `json:"customer"`
}

func (h *CustomerHandlers) AddCustomer(ctx context.Context, _ *mcp.CallToolRequest, input AddCustomerInput) (*mcp.CallToolResult, CustomerOutput, error) {
	if input.Name == "" {
		return nil, CustomerOutput{}, fmt.Errorf("name is required")
	}

	var modules []models.ProductEntry
	if !input.SkipDefaults {
		modules = catalog.DefaultModules()
	}

	rec, err := h.store.Create(ctx, input.Name, modules)
	if err != nil {
		return nil, CustomerOutput{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return nil, CustomerOutput{Customer: rec}, nil
}

func summarize(rec models.CustomerRecord) CustomerSummary {
	s := CustomerSummary{ID: rec.ID.String(), Name: rec.Name, LastEdited: rec.LastEdited}
	for _, m := range rec.Data.Modules {
		switch m.Status {
		case models.StatusLicensed:
			s.Licensed++
		case models.StatusOpportunity:
			s.Opportunity++
		}
	}
	return s
}
