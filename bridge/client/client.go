// Package client talks to a running bridge over the command port.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/morikuni/failure/v2"

	"github.com/umcp/umcp/bridge"
	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/editor/command"
	"github.com/umcp/umcp/log"
)

// ErrorCode defines error types for client operations
type ErrorCode string

const (
	ConnectFailed ErrorCode = "ConnectFailed"
	SendFailed    ErrorCode = "SendFailed"
	BadReply      ErrorCode = "BadReply"
	CommandFailed ErrorCode = "CommandFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// maxAttempts bounds Send retries; the bridge may be mid-restart when a
// tool call arrives.
const maxAttempts = 3

// retryDelay between attempts.
const retryDelay = time.Second

// Client is a command-port client. Safe for sequential use; calls are
// serialized internally, matching the one-request-one-reply framing.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Scanner
	seq    int
}

// New creates a client for addr (host:port). timeout bounds each
// request/reply exchange.
func New(addr string, timeout time.Duration) *Client {
	return &Client{addr: addr, timeout: timeout}
}

// IsConnected reports whether a connection is currently open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close drops the connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

func (c *Client) ensureConnLocked() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return failure.Translate(err, ConnectFailed,
			failure.Message("Failed to connect to bridge"),
			failure.Context{"addr": c.addr},
		)
	}
	c.conn = conn
	c.reader = bufio.NewScanner(conn)
	c.reader.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	log.Debug("Connected to bridge", "addr", c.addr)
	return nil
}

// Send issues one command and returns its envelope. Transport failures are
// retried with a fresh connection up to maxAttempts; an error envelope from
// the bridge is returned as-is, not retried.
func (c *Client) Send(cmdType string, params any) (command.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.sendOnce(cmdType, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		log.Debug("Bridge send failed", "command", cmdType, "attempt", attempt, "error", err)
		if attempt < maxAttempts {
			time.Sleep(retryDelay)
		}
	}
	return command.Response{}, failure.Translate(lastErr, SendFailed,
		failure.Message(fmt.Sprintf("Bridge unreachable after %d attempts", maxAttempts)),
		failure.Context{"command": cmdType, "addr": c.addr},
	)
}

func (c *Client) sendOnce(cmdType string, params any) (command.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnLocked(); err != nil {
		return command.Response{}, err
	}

	c.seq++
	req := bridge.Request{
		ID:   fmt.Sprintf("cli_%s_%d", cmdType, c.seq),
		Type: cmdType,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return command.Response{}, failure.Wrap(err)
		}
		req.Params = raw
	}

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.closeLocked()
		return command.Response{}, failure.Wrap(err)
	}
	if err := json.NewEncoder(c.conn).Encode(req); err != nil {
		c.closeLocked()
		return command.Response{}, failure.Wrap(err)
	}
	if !c.reader.Scan() {
		err := c.reader.Err()
		c.closeLocked()
		if err == nil {
			err = failure.New(BadReply, failure.Message("Bridge closed the connection"))
		}
		return command.Response{}, failure.Wrap(err)
	}

	var rep bridge.Reply
	if err := json.Unmarshal(c.reader.Bytes(), &rep); err != nil {
		c.closeLocked()
		return command.Response{}, failure.Translate(err, BadReply,
			failure.Message("Malformed reply from bridge"),
		)
	}
	return rep.Response, nil
}

// Ping checks liveness with a single attempt.
func (c *Client) Ping() error {
	resp, err := c.sendOnce("ping", nil)
	if err != nil {
		return err
	}
	if !resp.Success {
		return failure.New(CommandFailed, failure.Message(resp.Error))
	}
	return nil
}

// RegisterClient announces this process in the bridge's client table so
// state snapshots can report it. Single attempt; a bridge that is not up
// yet is not worth a retry schedule at startup.
func (c *Client) RegisterClient(name string) error {
	resp, err := c.sendOnce("register_client", map[string]string{"name": name})
	if err != nil {
		return err
	}
	if !resp.Success {
		return failure.New(CommandFailed, failure.Message(resp.Error))
	}
	return nil
}

// ForceUpdate asks the bridge to leave play mode and refresh the editor.
func (c *Client) ForceUpdate() (command.Response, error) {
	resp, err := c.Send("manage_editor", nil)
	if err != nil {
		return command.Response{}, err
	}
	if !resp.Success {
		return resp, failure.New(CommandFailed,
			failure.Message(resp.Error),
			failure.Context{"command": "manage_editor"},
		)
	}
	return resp, nil
}

// FetchState retrieves an editor snapshot.
func (c *Client) FetchState() (editor.Snapshot, error) {
	resp, err := c.Send("get_state", nil)
	if err != nil {
		return editor.Snapshot{}, err
	}
	if !resp.Success {
		return editor.Snapshot{}, failure.New(CommandFailed, failure.Message(resp.Error))
	}

	// Data crossed the wire as a generic JSON object; round-trip it into
	// the snapshot type.
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return editor.Snapshot{}, failure.Wrap(err)
	}
	var snap editor.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return editor.Snapshot{}, failure.Translate(err, BadReply,
			failure.Message("Unexpected state payload"),
		)
	}
	return snap, nil
}
