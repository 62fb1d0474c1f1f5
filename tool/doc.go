// Package tool defines the contract boundary for pluggable capabilities.
//
// The package is intentionally split by concern:
//   - tool: the capability interface every pluggable tool implements
//   - schema: declarative input schemas used for validation and discovery
//   - result: the immutable outcome value of one invocation
//   - error: the structured failure taxonomy crossing the contract boundary
//   - registry: the process-wide catalogue and sole execution gateway
//
// The package is transport-agnostic so the CLI and the line-protocol server
// can share one registry and one tool contract.
package tool
