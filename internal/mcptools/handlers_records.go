package mcptools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opendata-mcp/internal/analysis"
)

func registerGetFirstDatastoreResourceRecords(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("get_first_datastore_resource_records",
		mcp.WithDescription("Fetch records from the first datastore-active resource of a dataset."),
		mcp.WithString("packageId", mcp.Required(), mcp.Description("Dataset id or name")),
		mcp.WithNumber("limit", mcp.DefaultNumber(10), mcp.Description("Maximum records to return")),
	)
	s.AddTool(tool, h.handleGetFirstDatastoreResourceRecords)
}

func (h *Handlers) handleGetFirstDatastoreResourceRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	packageID, err := a.requireString("packageId")
	if err != nil {
		return h.fail("get_first_datastore_resource_records", err)
	}
	limit, err := a.intOr("limit", 10)
	if err != nil {
		return h.fail("get_first_datastore_resource_records", err)
	}
	if err := positiveInt("limit", limit); err != nil {
		return h.fail("get_first_datastore_resource_records", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "get_first_datastore_resource_records", "request_id", reqID, "package_id", packageID)

	pkg, err := h.api.GetPackage(ctx, packageID)
	if err != nil {
		return h.fail("get_first_datastore_resource_records", err)
	}

	var target *analysis.ResourceSummary
	var resourceID string
	for i := range pkg.Resources {
		if pkg.Resources[i].DatastoreActive {
			summary := analysis.BuildResourceSummary(&pkg.Resources[i])
			target = &summary
			resourceID = pkg.Resources[i].ID
			break
		}
	}
	if target == nil {
		return h.fail("get_first_datastore_resource_records",
			fmt.Errorf("package %s has no datastore-active resources", packageID))
	}

	info, err := h.api.GetResourceRecords(ctx, resourceID, limit, 0)
	if err != nil {
		return h.fail("get_first_datastore_resource_records", err)
	}

	return h.respond(map[string]interface{}{
		"package_id": pkg.ID,
		"resource":   target,
		"total":      info.Total,
		"fields":     info.Fields,
		"records":    info.Records,
	})
}

func registerGetResourceRecords(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("get_resource_records",
		mcp.WithDescription("Fetch records from a datastore-active resource with limit and offset."),
		mcp.WithString("resourceId", mcp.Required(), mcp.Description("Resource id")),
		mcp.WithNumber("limit", mcp.DefaultNumber(10), mcp.Description("Maximum records to return")),
		mcp.WithNumber("offset", mcp.DefaultNumber(0), mcp.Description("Number of records to skip")),
	)
	s.AddTool(tool, h.handleGetResourceRecords)
}

func (h *Handlers) handleGetResourceRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	resourceID, err := a.requireString("resourceId")
	if err != nil {
		return h.fail("get_resource_records", err)
	}
	limit, err := a.intOr("limit", 10)
	if err != nil {
		return h.fail("get_resource_records", err)
	}
	offset, err := a.intOr("offset", 0)
	if err != nil {
		return h.fail("get_resource_records", err)
	}
	if err := positiveInt("limit", limit); err != nil {
		return h.fail("get_resource_records", err)
	}
	if err := nonNegativeInt("offset", offset); err != nil {
		return h.fail("get_resource_records", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "get_resource_records", "request_id", reqID, "resource_id", resourceID, "limit", limit, "offset", offset)

	info, err := h.api.GetResourceRecords(ctx, resourceID, limit, offset)
	if err != nil {
		return h.fail("get_resource_records", err)
	}

	return h.respond(map[string]interface{}{
		"resource_id": resourceID,
		"total":       info.Total,
		"limit":       limit,
		"offset":      offset,
		"fields":      info.Fields,
		"records":     info.Records,
	})
}
