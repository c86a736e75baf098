// ABOUTME: MCP resource handlers exposing customers and the product library
// ABOUTME: Read-only access via acctnotes:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/store"
)

const resourceScheme = "acctnotes://"

type ResourceHandlers struct {
	store *store.Store
}

func NewResourceHandlers(st *store.Store) *ResourceHandlers {
	return &ResourceHandlers{store: st}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "customers":
		if len(parts) == 1 || parts[1] == "" {
			return jsonResource(uri, h.store.List())
		}
		rec, err := h.store.Resolve(parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch customer: %w", err)
		}
		return jsonResource(uri, rec)

	case "library":
		lib := map[string][]catalog.Product{}
		for _, area := range catalog.ProcessAreas() {
			lib[area] = catalog.Products(area)
		}
		return jsonResource(uri, lib)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
