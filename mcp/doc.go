// Package mcp implements the Model Context Protocol server for the bridge.
//
// The mcp package provides:
// - MCP stdio server implementation for external tool integration
// - Tools for forcing editor updates and reading editor state
// - Bridge connectivity status for MCP clients
package mcp
