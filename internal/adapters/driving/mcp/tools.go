package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/coursa-cli/internal/core/domain"
)

// PlanInput is the input schema for the plan tool.
type PlanInput struct {
	IncludeMappings bool `json:"include_mappings,omitempty" jsonschema:"include the full source-to-destination mapping in the output"`
	Limit           int  `json:"limit,omitempty" jsonschema:"maximum number of mappings to return (default 50)"`
}

// PlanOutput is the output schema for the plan tool.
type PlanOutput struct {
	FilesByCategory  map[string]int  `json:"files_by_category"`
	FoldersDecided   int             `json:"folders_decided"`
	FoldersEscalated int             `json:"folders_escalated"`
	OracleCalls      int             `json:"oracle_calls"`
	CachedDecisions  int             `json:"cached_decisions"`
	StalePaths       []string        `json:"stale_paths,omitempty"`
	Fallbacks        []string        `json:"fallbacks,omitempty"`
	DegradedPaths    []string        `json:"degraded_paths,omitempty"`
	Mappings         []MappingOutput `json:"mappings,omitempty"`
	MappingCount     int             `json:"mapping_count"`
}

// MappingOutput represents a single planned move.
type MappingOutput struct {
	Source       string `json:"source"`
	Category     string `json:"category"`
	Destination  string `json:"destination"`
	DecisionPath string `json:"decision_path"`
	Suffixed     bool   `json:"suffixed,omitempty"`
}

// RecordInput is the input schema for the record tool.
type RecordInput struct {
	Path string `json:"path" jsonschema:"corpus-relative path whose stored classification to fetch"`
}

// RecordOutput is the output schema for the record tool.
type RecordOutput struct {
	Found       bool    `json:"found"`
	Path        string  `json:"path"`
	Kind        string  `json:"kind,omitempty"`
	Category    string  `json:"category,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Mixed       bool    `json:"mixed,omitempty"`
	Description string  `json:"description,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "plan",
		Description: "Classify the course corpus and plan its reorganisation",
	}, s.handlePlan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "record",
		Description: "Fetch the stored classification record for one corpus path",
	}, s.handleRecord)
}

// handlePlan handles the plan tool invocation.
func (s *Server) handlePlan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanInput,
) (*mcp.CallToolResult, PlanOutput, error) {
	plan, err := s.ports.Planner.Plan(ctx)
	if err != nil {
		return nil, PlanOutput{}, err
	}
	s.setLastPlan(plan)

	report := plan.Report
	output := PlanOutput{
		FilesByCategory:  make(map[string]int, len(report.FilesByCategory)),
		FoldersDecided:   report.FoldersDecided,
		FoldersEscalated: report.FoldersEscalated,
		OracleCalls:      report.OracleCalls,
		CachedDecisions:  report.CachedDecisions,
		StalePaths:       report.StalePaths,
		Fallbacks:        report.Fallbacks,
		DegradedPaths:    report.DegradedPaths,
		MappingCount:     len(plan.Mappings),
	}
	for category, count := range report.FilesByCategory {
		output.FilesByCategory[category.String()] = count
	}

	if input.IncludeMappings {
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}
		for _, m := range plan.Mappings {
			if len(output.Mappings) == limit {
				break
			}
			output.Mappings = append(output.Mappings, MappingOutput{
				Source:       m.SourcePath,
				Category:     m.Category.String(),
				Destination:  m.DestPath,
				DecisionPath: m.DecisionPath,
				Suffixed:     m.Suffixed,
			})
		}
	}

	return nil, output, nil
}

// handleRecord handles the record tool invocation.
func (s *Server) handleRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecordInput,
) (*mcp.CallToolResult, RecordOutput, error) {
	if s.ports.Records == nil {
		return nil, RecordOutput{}, errors.New("record store not configured")
	}

	rec, err := s.ports.Records.Lookup(ctx, input.Path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, RecordOutput{Found: false, Path: input.Path}, nil
	}
	if err != nil {
		return nil, RecordOutput{}, err
	}

	return nil, RecordOutput{
		Found:       true,
		Path:        rec.Path,
		Kind:        string(rec.Kind),
		Category:    rec.Category.String(),
		Confidence:  rec.Confidence,
		Mixed:       rec.Mixed,
		Description: rec.Description,
		Reason:      rec.Reason,
		Source:      string(rec.Source),
	}, nil
}
