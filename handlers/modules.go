// ABOUTME: Module and third-party MCP tool handlers
// ABOUTME: Implements set_module_status and add_third_party
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

type ModuleHandlers struct {
	store *store.Store
}

func NewModuleHandlers(st *store.Store) *ModuleHandlers {
	return &ModuleHandlers{store: st}
}

type SetModuleStatusInput struct {
	Customer    string `json:"customer" jsonschema:"Customer id or exact name (required)"`
	Module      string `json:"module" jsonschema:"Product name (required)"`
	Status      string `json:"status,omitempty" jsonschema:"Licensed, Opportunity, Dropped, Lost, CAI or Recommended; empty removes the module"`
	ProcessArea string `json:"process_area,omitempty" jsonschema:"Process area; defaults to the library's area for the product"`
	Quantity    int    `json:"quantity,omitempty" jsonschema:"Quantity for user-type products"`
}

type ModulesOutput struct {
	CustomerID string                `json:"customer_id"`
	Modules    []models.ProductEntry `json:"modules"`
}

func (h *ModuleHandlers) SetModuleStatus(ctx context.Context, _ *mcp.CallToolRequest, input SetModuleStatusInput) (*mcp.CallToolResult, ModulesOutput, error) {
	rec, err := h.store.Resolve(input.Customer)
	if err != nil {
		return nil, ModulesOutput{}, fmt.Errorf("failed to find customer: %w", err)
	}

	rec, err = h.store.SetModuleStatus(ctx, rec.ID, store.ModuleChange{
		Name:        input.Module,
		Status:      input.Status,
		ProcessArea: input.ProcessArea,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return nil, ModulesOutput{}, fmt.Errorf("failed to set module status: %w", err)
	}
	return nil, ModulesOutput{CustomerID: rec.ID.String(), Modules: rec.Data.Modules}, nil
}

type AddThirdPartyInput struct {
	Customer      string `json:"customer" jsonschema:"Customer id or exact name (required)"`
	SolutionName  string `json:"solution_name" jsonschema:"Third-party product name (required)"`
	Purpose       string `json:"purpose,omitempty" jsonschema:"What the solution is used for"`
	ConnectedToNS string `json:"connected_to_ns,omitempty" jsonschema:"integrated, manual, both, disconnected or unknown"`
	ConnectorName string `json:"connector_name,omitempty" jsonschema:"Connector used for the integration"`
	Notes         string `json:"notes,omitempty" jsonschema:"Local notes, never sent to the analyzer"`
}

type ThirdPartyOutput struct {
	CustomerID string                      `json:"customer_id"`
	ThirdParty []models.ThirdPartySolution `json:"third_party"`
}

func (h *ModuleHandlers) AddThirdParty(ctx context.Context, _ *mcp.CallToolRequest, input AddThirdPartyInput) (*mcp.CallToolResult, ThirdPartyOutput, error) {
	rec, err := h.store.Resolve(input.Customer)
	if err != nil {
		return nil, ThirdPartyOutput{}, fmt.Errorf("failed to find customer: %w", err)
	}

	rec, err = h.store.AddThirdParty(ctx, rec.ID, models.ThirdPartySolution{
		SolutionName:  input.SolutionName,
		Purpose:       input.Purpose,
		ConnectedToNS: input.ConnectedToNS,
		ConnectorName: input.ConnectorName,
		Notes:         input.Notes,
	})
	if err != nil {
		return nil, ThirdPartyOutput{}, fmt.Errorf("failed to add third-party solution: %w", err)
	}
	return nil, ThirdPartyOutput{CustomerID: rec.ID.String(), ThirdParty: rec.Data.ThirdParty}, nil
}
