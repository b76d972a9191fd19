// Package bridge is the network front of the editor loop.
//
// The bridge package provides:
// - The newline-delimited JSON command protocol and its listener
// - The state publisher that pushes editor snapshots to subscribers
// - HTTP management endpoints (/health, /state)
// - Serve, which runs the loop and every listener under one group
//
// The command path is synchronous: one request line in, one envelope out,
// based on pre-transition state. Everything the editor finishes later is
// only observable through the state publisher and the snapshot cache.
package bridge
