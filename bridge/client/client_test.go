package client

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/umcp/umcp/bridge"
	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/editor/command"
)

// fakeBridge answers command frames with canned envelopes per command type.
func fakeBridge(t *testing.T, responses map[string]command.Response) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				enc := json.NewEncoder(conn)
				for scanner.Scan() {
					var req bridge.Request
					if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
						return
					}
					resp, ok := responses[req.Type]
					if !ok {
						resp = command.NewError("unknown command: " + req.Type)
					}
					if err := enc.Encode(bridge.Reply{ID: req.ID, Response: resp}); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func TestClient_Ping(t *testing.T) {
	addr := fakeBridge(t, map[string]command.Response{
		"ping": command.NewSuccess("pong", nil),
	})

	c := New(addr, time.Second)
	defer c.Close()

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if !c.IsConnected() {
		t.Error("IsConnected() = false after a successful ping")
	}
}

func TestClient_RegisterClient(t *testing.T) {
	addr := fakeBridge(t, map[string]command.Response{
		"register_client": command.NewSuccess("Client registered", map[string]any{
			"name":   "mcp",
			"status": "connected",
		}),
	})

	c := New(addr, time.Second)
	defer c.Close()

	if err := c.RegisterClient("mcp"); err != nil {
		t.Fatalf("RegisterClient() error: %v", err)
	}
}

func TestClient_ForceUpdate(t *testing.T) {
	addr := fakeBridge(t, map[string]command.Response{
		"manage_editor": command.NewSuccess("Editor updated", map[string]any{
			"action":  command.ActionUpdating,
			"runMode": string(editor.EditMode),
		}),
	})

	c := New(addr, time.Second)
	defer c.Close()

	resp, err := c.ForceUpdate()
	if err != nil {
		t.Fatalf("ForceUpdate() error: %v", err)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T", resp.Data)
	}
	if data["action"] != command.ActionUpdating {
		t.Errorf("action = %v", data["action"])
	}
}

func TestClient_ErrorEnvelopeNotRetried(t *testing.T) {
	addr := fakeBridge(t, map[string]command.Response{
		"manage_editor": command.NewError("handler exploded"),
	})

	c := New(addr, time.Second)
	defer c.Close()

	start := time.Now()
	resp, err := c.ForceUpdate()
	if err == nil {
		t.Fatal("ForceUpdate() succeeded on an error envelope")
	}
	if resp.Error != "handler exploded" {
		t.Errorf("envelope error = %q", resp.Error)
	}
	// An application-level error must come back from the single exchange,
	// not after the transport retry schedule.
	if time.Since(start) > retryDelay {
		t.Error("error envelope appears to have been retried")
	}
}

func TestClient_FetchState(t *testing.T) {
	addr := fakeBridge(t, map[string]command.Response{
		"get_state": command.NewSuccess("Editor state", editor.Snapshot{
			RunMode: editor.PlayMode,
			Context: "main",
		}),
	})

	c := New(addr, time.Second)
	defer c.Close()

	snap, err := c.FetchState()
	if err != nil {
		t.Fatalf("FetchState() error: %v", err)
	}
	if snap.RunMode != editor.PlayMode {
		t.Errorf("RunMode = %s, want %s", snap.RunMode, editor.PlayMode)
	}
}

func TestClient_Unreachable(t *testing.T) {
	// A port nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := New(addr, 50*time.Millisecond)
	if err := c.Ping(); err == nil {
		t.Fatal("Ping() succeeded against a closed port")
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after a failed dial")
	}
}
