// Package services implements the driving port interfaces.
// Services contain the core engine logic: classification with retry and
// escalation, category resolution and destination synthesis. They orchestrate
// calls to driven ports (adapters) and never touch the network or disk
// directly.
package services
