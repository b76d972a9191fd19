// Package cli implements the command-line interface for the bridge.
//
// The cli package provides:
// - Command-line argument parsing and validation
// - The serve command running the bridge itself
// - Status reporting against the management endpoints
// - A live state watcher for the state port
// - Client config installation for MCP clients
package cli
