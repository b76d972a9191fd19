package command

import (
	"encoding/json"
	"testing"

	"github.com/umcp/umcp/status"
)

func TestRegisterClient(t *testing.T) {
	r, loop := startRegistry(t)

	resp := r.HandleCommand("register_client", json.RawMessage(`{"name": "mcp"}`))
	if !resp.Success {
		t.Fatalf("register_client failed: %+v", resp)
	}

	snap, err := loop.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 1 {
		t.Fatalf("snapshot carries %d clients, want 1", len(snap.Clients))
	}
	c := snap.Clients[0]
	if c.Name != "mcp" {
		t.Errorf("client name = %q, want mcp", c.Name)
	}
	if c.Status != status.Connected {
		t.Errorf("client status = %s, want %s", c.Status, status.Connected)
	}
	if c.ConfigStatus != "Connected" {
		t.Errorf("config status = %q, want Connected", c.ConfigStatus)
	}
}

func TestRegisterClient_Idempotent(t *testing.T) {
	r, loop := startRegistry(t)

	r.HandleCommand("register_client", json.RawMessage(`{"name": "mcp"}`))
	r.HandleCommand("register_client", json.RawMessage(`{"name": "mcp"}`))

	snap, err := loop.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 1 {
		t.Errorf("snapshot carries %d clients after re-registration, want 1", len(snap.Clients))
	}
}

func TestRegisterClient_RequiresName(t *testing.T) {
	r, _ := startRegistry(t)

	resp := r.HandleCommand("register_client", nil)
	if resp.Success {
		t.Fatal("register_client without a name reported success")
	}
	if resp.Error == "" {
		t.Error("error envelope carries no message")
	}
}
