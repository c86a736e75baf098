// ABOUTME: Assembles the MCP server with every tool, resource and prompt
// ABOUTME: Shared by the mcp command and tests
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/store"
)

// NewServer registers the acctnotes tools on a new MCP server.
func NewServer(st *store.Store, session *analyzer.Session, version string) *mcp.Server {
	customers := NewCustomerHandlers(st)
	modules := NewModuleHandlers(st)
	analyzers := NewAnalyzerHandlers(st, session)
	resources := NewResourceHandlers(st)
	prompts := NewPromptHandlers(st)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "acctnotes",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_customers",
		Description: "List customer accounts, optionally filtered by name",
	}, customers.ListCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_customer",
		Description: "Create a customer account with the default licensed modules",
	}, customers.AddCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_module_status",
		Description: "Set or clear the status of a product on a customer account",
	}, modules.SetModuleStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_third_party",
		Description: "Add or update a third-party solution used by a customer",
	}, modules.AddThirdParty)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "project_customer",
		Description: "Show what the license analyzer would receive for a customer",
	}, analyzers.ProjectCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_analyzer_message",
		Description: "Apply a THIRD_PARTY_UPDATE or EVALUATION_UPDATE message to a customer",
	}, analyzers.ApplyAnalyzerMessage)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "customers",
		Name:        "customers",
		Description: "Every customer record",
		MIMEType:    "application/json",
	}, resources.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "library",
		Name:        "library",
		Description: "Product library grouped by process area",
		MIMEType:    "application/json",
	}, resources.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "customers/{id}",
		Name:        "customer",
		Description: "One customer record by id or name",
		MIMEType:    "application/json",
	}, resources.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "account-review",
		Description: "Summarize an account and suggest next steps",
		Arguments: []*mcp.PromptArgument{
			{Name: "customer", Description: "Customer id or name", Required: true},
		},
	}, prompts.GetPrompt)

	return server
}
