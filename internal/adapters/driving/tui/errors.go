package tui

import "errors"

// ErrMissingPlanner is returned when the planner service is not provided.
var ErrMissingPlanner = errors.New("tui: planner service is required")
