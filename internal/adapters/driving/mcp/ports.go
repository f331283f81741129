package mcp

import (
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Planner runs classification and planning.
	Planner driving.Planner

	// Records gives read access to stored classification records.
	Records driven.RecordStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Planner == nil {
		return ErrMissingPlanner
	}
	// Records is optional; the record tool degrades without it
	return nil
}
