// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Coursa. It lets AI assistants run planning runs and inspect classification
// decisions for a course corpus.
package mcp

import "errors"

// ErrMissingPlanner is returned when the planner service is not provided.
var ErrMissingPlanner = errors.New("mcp: planner service is required")
