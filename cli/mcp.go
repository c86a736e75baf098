// ABOUTME: MCP server subcommand
// ABOUTME: Serves the customer tools, resources and review prompt over stdio
package cli

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/handlers"
	"github.com/harperreed/acctnotes/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, st *store.Store, session *analyzer.Session, logger *zap.Logger, version string) error {
	logger.Info("starting MCP server", zap.String("version", version), zap.Int("customers", len(st.List())))

	server := handlers.NewServer(st, session, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
