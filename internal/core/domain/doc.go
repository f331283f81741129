// Package domain defines the core business entities for Coursa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Tree / Node: The path trie over every corpus path in one run
//   - Decision: A classification authored for one path during a run
//   - Record: The durable form of a decision plus a content fingerprint
//   - Mapping / Plan: The planned destination tree
//   - Report: Aggregated run statistics
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
