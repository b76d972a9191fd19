package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/morikuni/failure/v2"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/umcp/umcp/bridge/statecache"
	"github.com/umcp/umcp/config"
	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/editor/command"
	"github.com/umcp/umcp/log"
)

// ErrorCode defines error types for bridge operations
type ErrorCode string

const (
	ListenFailed ErrorCode = "ListenFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

// maxCommandConns caps concurrent command connections. One controller plus
// a few stray probes is the expected load.
const maxCommandConns = 16

// snapshotKey is the state cache key for the editor snapshot.
const snapshotKey = "editor"

// Server ties the editor loop to its network surfaces.
type Server struct {
	settings  config.Settings
	registry  *command.Registry
	publisher *Publisher
	cache     *statecache.Cache[editor.Snapshot]
	startedAt time.Time
}

// NewServer builds a server around registry. cacheDir selects where
// snapshots persist; empty means the default location.
func NewServer(settings config.Settings, registry *command.Registry, cacheDir string) *Server {
	return &Server{
		settings:  settings,
		registry:  registry,
		publisher: NewPublisher(settings.StateSendTimeout()),
		cache:     statecache.New[editor.Snapshot](cacheDir),
	}
}

// PublishSnapshot pushes a snapshot to subscribers and the disk cache.
// Installed as the session's refresh hook, and also driven by the
// publisher's interval tick.
func (s *Server) PublishSnapshot(snap editor.Snapshot) {
	if err := s.cache.Put(snapshotKey, snap); err != nil {
		log.Warn("Failed to persist state snapshot", "error", err)
	}
	s.publisher.Broadcast(snap)
}

// CachedSnapshot returns the last persisted snapshot, if fresh enough.
func (s *Server) CachedSnapshot() (editor.Snapshot, bool) {
	return s.cache.Get(snapshotKey)
}

// Serve runs the editor loop, the command listener, the state publisher
// and the management HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.startedAt = time.Now()

	warnings := s.settings.Validate()
	for _, w := range warnings {
		log.Warn("Settings warning", "warning", w)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.registry.Loop().Run(ctx)
		return ctx.Err()
	})
	g.Go(func() error {
		return s.serveCommands(ctx)
	})
	g.Go(func() error {
		return s.serveState(ctx)
	})
	g.Go(func() error {
		return s.serveManagement(ctx)
	})
	g.Go(func() error {
		return s.publishLoop(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// serveCommands accepts command connections on the command port.
func (s *Server) serveCommands(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.CommandAddr())
	if err != nil {
		return failure.Translate(err, ListenFailed,
			failure.Message("Failed to bind command port"),
			failure.Context{"addr": s.settings.CommandAddr()},
		)
	}
	ln = netutil.LimitListener(ln, maxCommandConns)
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	log.Info("Command listener ready", "addr", s.settings.CommandAddr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("Accept failed", "error", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn answers command frames on one connection until it closes or
// idles past the socket timeout.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log.Debug("Command connection opened", "remote", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(conn)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.settings.SocketTimeout())); err != nil {
			return
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && ctx.Err() == nil {
				log.Debug("Command connection closed", "remote", conn.RemoteAddr(), "error", err)
			}
			return
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(reply("", command.NewError("malformed request: "+err.Error()))); err != nil {
				return
			}
			continue
		}

		resp := s.registry.HandleCommand(req.Type, req.Params)
		if err := enc.Encode(reply(req.ID, resp)); err != nil {
			log.Debug("Failed to write reply", "remote", conn.RemoteAddr(), "error", err)
			return
		}
	}
}

// publishLoop periodically snapshots the session for subscribers, so a
// watcher sees state even when no command traffic forces a refresh.
func (s *Server) publishLoop(ctx context.Context) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.publisher.SubscriberCount() == 0 {
				continue
			}
			snap, err := s.registry.Loop().Snapshot()
			if err != nil {
				continue
			}
			s.PublishSnapshot(snap)
		}
	}
}
