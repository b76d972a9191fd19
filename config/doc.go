// Package config holds the bridge's persisted configuration.
//
// The config package provides:
// - Bridge settings (ports, bind address, timeouts) with validation
// - JSON persistence with default creation on first load
// - The external client config file schema (umcpServers)
// - Helpers for installing the client config for an MCP client
package config
