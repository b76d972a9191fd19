package command

import (
	"encoding/json"
	"testing"

	"github.com/umcp/umcp/editor"
)

func TestEnterPlayMode_ThenManageEditor(t *testing.T) {
	r, loop := startRegistry(t)

	resp := r.HandleCommand("enter_play_mode", json.RawMessage(`{"context": "simulation"}`))
	if !resp.Success {
		t.Fatalf("enter_play_mode failed: %+v", resp)
	}

	// The flagship transition is now reachable without touching the loop
	// directly: the forced update sees play mode and requests the exit.
	resp = r.HandleCommand("manage_editor", nil)
	if !resp.Success {
		t.Fatalf("manage_editor failed: %+v", resp)
	}
	res := result(t, resp)
	if res.Action != ActionExitingPlay {
		t.Errorf("action = %q, want %q", res.Action, ActionExitingPlay)
	}
	if res.RunMode != editor.PlayMode {
		t.Errorf("runMode = %s, want pre-call %s", res.RunMode, editor.PlayMode)
	}
	if res.Context != "simulation" {
		t.Errorf("context = %q, want simulation", res.Context)
	}

	if err := loop.Drain(); err != nil {
		t.Fatal(err)
	}
	snap, err := loop.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.RunMode != editor.EditMode {
		t.Errorf("post-drain run mode = %s, want %s", snap.RunMode, editor.EditMode)
	}
}

func TestEnterPlayMode_MalformedParams(t *testing.T) {
	r, _ := startRegistry(t)

	resp := r.HandleCommand("enter_play_mode", json.RawMessage(`{"context": 7`))
	if resp.Success {
		t.Fatal("malformed parameters reported success")
	}
	if resp.Error == "" {
		t.Error("error envelope carries no message")
	}
}

func TestOpenScene(t *testing.T) {
	r, loop := startRegistry(t)

	resp := r.HandleCommand("open_scene", json.RawMessage(`{"name": "SampleScene"}`))
	if !resp.Success {
		t.Fatalf("open_scene failed: %+v", resp)
	}

	snap, err := loop.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Scene == nil || snap.Scene.Name != "SampleScene" {
		t.Errorf("scene = %+v, want SampleScene", snap.Scene)
	}
	if snap.Scene != nil && snap.Scene.Dirty {
		t.Error("freshly opened scene is dirty")
	}
}

func TestOpenScene_RequiresName(t *testing.T) {
	r, _ := startRegistry(t)

	resp := r.HandleCommand("open_scene", nil)
	if resp.Success {
		t.Fatal("open_scene without a name reported success")
	}
}
