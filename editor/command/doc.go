// Package command is the bridge's command dispatch surface.
//
// The command package provides:
// - The success/error response envelope every command returns
// - A name-to-handler registry with guarded dispatch
// - The built-in editor commands (manage_editor, get_state, ping)
// - Simulation controls (enter_play_mode, open_scene) and client
//   registration (register_client)
//
// Handlers run on the editor loop. Errors and panics raised during
// dispatch are converted into error envelopes; they never escape to the
// transport as raw faults.
package command
