// ABOUTME: MCP prompt handlers for account review workflows
// ABOUTME: Builds prompts from a customer's modules, attributes and integrations
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

type PromptHandlers struct {
	store *store.Store
}

func NewPromptHandlers(st *store.Store) *PromptHandlers {
	return &PromptHandlers{store: st}
}

// GetPrompt generates the prompt message for the named template.
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "account-review":
		return h.accountReview(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) accountReview(args map[string]string) (*mcp.GetPromptResult, error) {
	ref, ok := args["customer"]
	if !ok || ref == "" {
		return nil, fmt.Errorf("customer is required")
	}
	rec, err := h.store.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	var b strings.Builder
	b.WriteString("Review this account and suggest next steps for the upcoming meeting:\n\n")
	fmt.Fprintf(&b, "Customer: %s (last edited %s)\n", rec.Name, rec.LastEdited)
	for _, key := range []string{models.AttrIndustry, models.AttrTier, models.AttrBaseSKU, models.AttrEmployees, models.AttrARR} {
		if v := rec.Data.General.Get(key); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, v)
		}
	}

	proj := analyzer.Project(rec)
	fmt.Fprintf(&b, "\nLicensed: %s\n", orNone(proj.Licensed))
	fmt.Fprintf(&b, "Opportunities: %s\n", orNone(proj.Opportunities))

	var potential []string
	for _, m := range rec.Data.Modules {
		if m.IsPotential() {
			potential = append(potential, m.Name)
		}
	}
	if len(potential) > 0 {
		fmt.Fprintf(&b, "Suggested by the analyzer: %s\n", strings.Join(potential, ", "))
	}

	if len(rec.Data.ThirdParty) > 0 {
		b.WriteString("\nThird-party solutions:\n")
		for _, tp := range rec.Data.ThirdParty {
			fmt.Fprintf(&b, "- %s (%s), connected: %s\n", tp.SolutionName, orNone(tp.Purpose), orNone(tp.ConnectedToNS))
		}
	}
	if notes := rec.Data.Overview.GeneralNotes; notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", notes)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Account review for %s", rec.Name),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: b.String()}},
		},
	}, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
