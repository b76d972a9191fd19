package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/umcp/umcp/config"
	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/editor/command"
)

func testServer(t *testing.T) (*Server, *editor.Loop) {
	t.Helper()
	loop := editor.NewLoop(editor.NewState())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	settings := config.DefaultSettings()
	srv := NewServer(settings, command.NewRegistry(loop), t.TempDir())
	return srv, loop
}

// roundTrip writes one request line into the connection handler and decodes
// the reply line.
func roundTrip(t *testing.T, srv *Server, req Request) Reply {
	t.Helper()

	client, server := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.handleConn(ctx, server)

	enc := json.NewEncoder(client)
	if err := enc.Encode(req); err != nil {
		t.Fatalf("encode request: %v", err)
	}

	scanner := bufio.NewScanner(client)
	if !scanner.Scan() {
		t.Fatalf("no reply line: %v", scanner.Err())
	}
	var rep Reply
	if err := json.Unmarshal(scanner.Bytes(), &rep); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	client.Close()
	return rep
}

func TestHandleConn_Ping(t *testing.T) {
	srv, _ := testServer(t)

	rep := roundTrip(t, srv, Request{ID: "req-1", Type: "ping"})

	if !rep.Success {
		t.Fatalf("ping failed: %+v", rep)
	}
	if rep.ID != "req-1" {
		t.Errorf("reply id = %q, want req-1", rep.ID)
	}
}

func TestHandleConn_UnknownCommand(t *testing.T) {
	srv, _ := testServer(t)

	rep := roundTrip(t, srv, Request{ID: "req-2", Type: "bogus"})

	if rep.Success {
		t.Fatal("unknown command reported success")
	}
	if !strings.Contains(rep.Error, "bogus") {
		t.Errorf("error %q does not name the command", rep.Error)
	}
	if rep.ID != "req-2" {
		t.Errorf("reply id = %q, want req-2", rep.ID)
	}
}

func TestHandleConn_MalformedLine(t *testing.T) {
	srv, _ := testServer(t)

	client, server := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.handleConn(ctx, server)

	if _, err := client.Write([]byte("{not json}\n")); err != nil {
		t.Fatal(err)
	}
	scanner := bufio.NewScanner(client)
	if !scanner.Scan() {
		t.Fatalf("no reply line: %v", scanner.Err())
	}
	var rep Reply
	if err := json.Unmarshal(scanner.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Success {
		t.Fatal("malformed request reported success")
	}
	if !strings.Contains(rep.Error, "malformed request") {
		t.Errorf("error = %q", rep.Error)
	}
	client.Close()
}

func TestHandleConn_ManageEditorReportsPreCallMode(t *testing.T) {
	srv, _ := testServer(t)

	// Enter play mode over the wire, like a controlling tool would.
	sim := roundTrip(t, srv, Request{ID: "sim-1", Type: "enter_play_mode"})
	if !sim.Success {
		t.Fatalf("enter_play_mode failed: %+v", sim)
	}

	rep := roundTrip(t, srv, Request{Type: "manage_editor"})

	if !rep.Success {
		t.Fatalf("manage_editor failed: %+v", rep)
	}
	data, ok := rep.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T", rep.Data)
	}
	if data["action"] != command.ActionExitingPlay {
		t.Errorf("action = %v, want %q", data["action"], command.ActionExitingPlay)
	}
	if data["runMode"] != string(editor.PlayMode) {
		t.Errorf("runMode = %v, want pre-call %q", data["runMode"], editor.PlayMode)
	}
}

// servePorts finds a command port with a free management port next to it,
// plus a state port.
func servePorts(t *testing.T) (commandPort, statePort int) {
	t.Helper()
	for attempt := 0; attempt < 10; attempt++ {
		cmdLn, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		commandPort = cmdLn.Addr().(*net.TCPAddr).Port
		mgmtLn, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", commandPort+1))
		if err != nil {
			cmdLn.Close()
			continue
		}
		stateLn, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		statePort = stateLn.Addr().(*net.TCPAddr).Port
		cmdLn.Close()
		mgmtLn.Close()
		stateLn.Close()
		return commandPort, statePort
	}
	t.Fatal("no adjacent free port pair found")
	return 0, 0
}

func TestServe_ReturnsNilOnCancel(t *testing.T) {
	commandPort, statePort := servePorts(t)
	settings := config.DefaultSettings()
	settings.CommandPort = commandPort
	settings.StatePort = statePort

	loop := editor.NewLoop(editor.NewState())
	srv := NewServer(settings, command.NewRegistry(loop), t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	// Wait for the command listener to come up.
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.DialTimeout("tcp", settings.CommandAddr(), 100*time.Millisecond)
		if err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("command listener never came up on %s", settings.CommandAddr())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not stop after cancel")
	}
}

func TestPublishSnapshot_Caches(t *testing.T) {
	srv, loop := testServer(t)

	snap, err := loop.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	srv.PublishSnapshot(snap)

	cached, ok := srv.CachedSnapshot()
	if !ok {
		t.Fatal("snapshot was not cached")
	}
	if cached.RunMode != snap.RunMode {
		t.Errorf("cached run mode = %s, want %s", cached.RunMode, snap.RunMode)
	}
}
