// Package oracle holds the pieces shared by the oracle service adapters:
// prompt construction from bounded queries, strict verdict parsing and rate
// limiting. The provider-specific HTTP adapters live in the anthropic and
// openai subpackages.
package oracle
