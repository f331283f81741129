// Package tui provides an interactive terminal user interface for Coursa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/coursa-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Planner runs classification and planning.
	Planner driving.Planner
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Planner == nil {
		return ErrMissingPlanner
	}
	return nil
}
