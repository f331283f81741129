package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Coursa resources.
	uriScheme = "coursa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the most recent plan.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "plan",
		Name:        "plan",
		Description: "Full output of the most recent planning run",
		MIMEType:    "application/json",
	}, s.handlePlanResource)
}

// handlePlanResource returns the last plan produced by the plan tool.
func (s *Server) handlePlanResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	plan := s.getLastPlan()
	if plan == nil {
		return nil, fmt.Errorf("no plan has been produced yet")
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling plan: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
