// Package service wires protocol transport to the dice tools.
//
// It is the transport adapter layer: the package knows how to run MCP over stdio
// or HTTP and delegates roll semantics to the domain handlers.
package service
