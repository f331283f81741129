// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Enumerates the read-only corpus tree
//   - RecordStore: Classification record persistence
//   - Oracle: External classification judgment (the expensive call)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DescriptionIndex: Per-file descriptions from the scraper metadata DB.
//     Without it, classification relies on names and structure alone.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
