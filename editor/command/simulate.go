package command

import (
	"encoding/json"

	"github.com/morikuni/failure/v2"

	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/log"
)

// Simulation controls. The bridge has no real host editor behind it, so
// play mode and scene loads are driven over the wire like any other
// command.

type enterPlayModeParams struct {
	Context string `json:"context"`
}

// HandleEnterPlayMode switches the session into play mode, optionally
// relabeling the editor context. Unlike the exit path, entering play mode
// lands immediately.
func HandleEnterPlayMode(s *editor.State, params json.RawMessage) (Response, error) {
	var p enterPlayModeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return Response{}, failure.Translate(err, InvalidParams,
				failure.Message("Malformed enter_play_mode parameters"),
			)
		}
	}

	if p.Context != "" {
		s.SetContext(p.Context)
	}
	s.EnterPlayMode()
	log.Info("Entered play mode", "context", s.Context())
	return NewSuccess("Entered play mode", map[string]any{
		"runMode": s.RunMode(),
		"context": s.Context(),
	}), nil
}

type openSceneParams struct {
	Name string `json:"name"`
}

// HandleOpenScene loads a clean scene into the session, replacing any
// scene already open.
func HandleOpenScene(s *editor.State, params json.RawMessage) (Response, error) {
	var p openSceneParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return Response{}, failure.Translate(err, InvalidParams,
				failure.Message("Malformed open_scene parameters"),
			)
		}
	}
	if p.Name == "" {
		return Response{}, failure.New(InvalidParams,
			failure.Message("open_scene requires a scene name"),
		)
	}

	s.OpenScene(p.Name)
	log.Info("Scene opened", "scene", p.Name)
	return NewSuccess("Scene opened", *s.Scene()), nil
}
