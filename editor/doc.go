// Package editor models the host editor session the bridge drives.
//
// The editor package provides:
// - Run mode and context tracking (edit mode vs play mode)
// - The simulated editor state (scene, asset index, windows)
// - A single-threaded loop with deferred, fire-and-forget callbacks
//
// All state mutation happens on the loop goroutine, mirroring a host
// editor's main-thread execution model: callers submit work, deferred
// callbacks run on a later tick, and nothing ever blocks the loop waiting
// on external I/O.
package editor
