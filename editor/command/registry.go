package command

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/log"
)

// HandlerFunc handles one command. params is the raw parameter object from
// the wire; handlers that take no parameters ignore it. Handlers run on the
// loop goroutine and may use the session state directly.
type HandlerFunc func(s *editor.State, params json.RawMessage) (Response, error)

// Registry maps command names to handlers and dispatches through the
// editor loop. Registration happens once at startup, before the transport
// accepts connections, so the map needs no locking.
type Registry struct {
	loop     *editor.Loop
	handlers map[string]HandlerFunc
}

// NewRegistry creates a registry bound to loop with the built-in commands
// registered.
func NewRegistry(loop *editor.Loop) *Registry {
	r := &Registry{
		loop:     loop,
		handlers: make(map[string]HandlerFunc),
	}
	r.Register("enter_play_mode", HandleEnterPlayMode)
	r.Register("get_state", HandleGetState)
	r.Register("manage_editor", HandleManageEditor)
	r.Register("open_scene", HandleOpenScene)
	r.Register("ping", HandlePing)
	r.Register("register_client", HandleRegisterClient)
	return r
}

// Register adds a handler under name, replacing any previous one.
func (r *Registry) Register(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleCommand dispatches one command and always returns an envelope.
// Unknown names, handler errors and handler panics all come back as error
// envelopes carrying the failure message; the caller never sees a raw
// fault.
func (r *Registry) HandleCommand(name string, params json.RawMessage) Response {
	h, ok := r.handlers[name]
	if !ok {
		log.Warn("Unknown command", "command", name)
		return NewError(fmt.Sprintf("unknown command: %s", name))
	}

	var resp Response
	err := r.loop.Do(name, func(s *editor.State) error {
		var herr error
		resp, herr = h(s, params)
		return herr
	})
	if err != nil {
		log.Error("Command failed", "command", name, "error", err)
		return NewError(err.Error())
	}
	return resp
}

// Loop exposes the underlying editor loop for callers that need to defer
// follow-up work relative to a command.
func (r *Registry) Loop() *editor.Loop {
	return r.loop
}
