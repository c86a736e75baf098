// ABOUTME: Analyzer MCP tool handlers
// ABOUTME: Implements project_customer and apply_analyzer_message
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

type AnalyzerHandlers struct {
	store   *store.Store
	session *analyzer.Session
}

func NewAnalyzerHandlers(st *store.Store, session *analyzer.Session) *AnalyzerHandlers {
	return &AnalyzerHandlers{store: st, session: session}
}

type ProjectCustomerInput struct {
	Customer string `json:"customer" jsonschema:"Customer id or exact name (required)"`
}

type ProjectCustomerOutput struct {
	Projection    analyzer.Projection         `json:"projection"`
	Opportunities []analyzer.Opportunity      `json:"opportunities"`
	Solutions     []analyzer.OutboundSolution `json:"solutions"`
}

func (h *AnalyzerHandlers) ProjectCustomer(_ context.Context, _ *mcp.CallToolRequest, input ProjectCustomerInput) (*mcp.CallToolResult, ProjectCustomerOutput, error) {
	rec, err := h.store.Resolve(input.Customer)
	if err != nil {
		return nil, ProjectCustomerOutput{}, fmt.Errorf("failed to find customer: %w", err)
	}
	return nil, ProjectCustomerOutput{
		Projection:    analyzer.Project(rec),
		Opportunities: analyzer.OpportunitySync(rec),
		Solutions:     analyzer.ThirdPartySync(rec),
	}, nil
}

type ApplyAnalyzerMessageInput struct {
	Customer string `json:"customer" jsonschema:"Customer id or exact name (required)"`
	Message  string `json:"message" jsonschema:"Raw analyzer message JSON, e.g. an EVALUATION_UPDATE"`
}

type ApplyAnalyzerMessageOutput struct {
	Outcome    string                      `json:"outcome"`
	Modules    []models.ProductEntry       `json:"modules"`
	ThirdParty []models.ThirdPartySolution `json:"third_party"`
}

func (h *AnalyzerHandlers) ApplyAnalyzerMessage(ctx context.Context, _ *mcp.CallToolRequest, input ApplyAnalyzerMessageInput) (*mcp.CallToolResult, ApplyAnalyzerMessageOutput, error) {
	rec, err := h.store.Resolve(input.Customer)
	if err != nil {
		return nil, ApplyAnalyzerMessageOutput{}, fmt.Errorf("failed to find customer: %w", err)
	}
	outcome, err := h.session.HandleInboundFor(ctx, rec.ID, []byte(input.Message))
	if err != nil {
		return nil, ApplyAnalyzerMessageOutput{}, fmt.Errorf("message not applied (%s): %w", outcome, err)
	}

	rec, err = h.store.Get(rec.ID)
	if err != nil {
		return nil, ApplyAnalyzerMessageOutput{}, err
	}
	return nil, ApplyAnalyzerMessageOutput{
		Outcome:    string(outcome),
		Modules:    rec.Data.Modules,
		ThirdParty: rec.Data.ThirdParty,
	}, nil
}
