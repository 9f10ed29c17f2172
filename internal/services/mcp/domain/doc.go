// Package domain translates MCP tool calls into roll service operations.
//
// Each tool has an input type, a result type, a *mcp.Tool schema and a
// handler built on a Roller. Failures are returned as tool errors carrying
// the localized message, so MCP clients can show them as-is.
package domain
