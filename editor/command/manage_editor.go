package command

import (
	"encoding/json"

	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/log"
)

// Branch labels reported in the manage_editor response data.
const (
	ActionUpdating       = "updating editor"
	ActionExitingPlay    = "exiting play mode"
	deferredRefreshLabel = "editor refresh"
)

// manageEditorResult is the data payload of a manage_editor response. It
// always reflects the run mode observed BEFORE any requested transition.
type manageEditorResult struct {
	Action  string         `json:"action"`
	RunMode editor.RunMode `json:"runMode"`
	Context string         `json:"context"`
}

// HandleManageEditor forces the editor toward a responsive edit-mode state
// and refreshes its caches. Parameters are accepted and ignored. In play
// mode the exit is requested and the refresh deferred to a later tick; in
// edit mode the refresh runs inline. Either way the response reports the
// pre-call mode and the branch taken, so a success answer does not mean the
// deferred work has happened yet.
func HandleManageEditor(s *editor.State, _ json.RawMessage) (Response, error) {
	result := manageEditorResult{
		RunMode: s.RunMode(),
		Context: s.Context(),
	}

	if s.RunMode() == editor.PlayMode {
		result.Action = ActionExitingPlay
		s.RequestExitPlayMode()
		s.Loop().Defer(deferredRefreshLabel, func(s *editor.State) error {
			refreshEditor(s)
			return nil
		})
		log.Info("Exiting play mode, refresh deferred")
		return NewSuccess("Exiting play mode and scheduling editor refresh", result), nil
	}

	result.Action = ActionUpdating
	refreshEditor(s)
	log.Info("Editor refreshed")
	return NewSuccess("Editor updated", result), nil
}

// refreshEditor performs the post-transition update steps. Idempotent; the
// repaint lands on the next tick rather than atomically with the rest.
func refreshEditor(s *editor.State) {
	s.ForceUpdate()
	s.RefreshAssets()
	s.MarkSceneDirty()
	s.Loop().Defer("repaint", func(s *editor.State) error {
		s.RepaintAll()
		return nil
	})
	s.NotifyRefresh()
}

// HandleGetState returns a snapshot of the editor session.
func HandleGetState(s *editor.State, _ json.RawMessage) (Response, error) {
	return NewSuccess("Editor state", s.Snapshot()), nil
}

// HandlePing answers with the current run mode, cheap enough for liveness
// probes.
func HandlePing(s *editor.State, _ json.RawMessage) (Response, error) {
	return NewSuccess("pong", map[string]any{"runMode": s.RunMode()}), nil
}
