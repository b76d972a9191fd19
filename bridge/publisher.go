package bridge

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/morikuni/failure/v2"

	"github.com/umcp/umcp/editor"
	"github.com/umcp/umcp/log"
)

// Publisher pushes editor snapshots to state-port subscribers. Writes are
// bounded by the state send timeout; a subscriber that cannot keep up is
// dropped rather than allowed to stall the others.
type Publisher struct {
	mu          sync.Mutex
	subscribers map[net.Conn]*json.Encoder
	sendTimeout time.Duration
}

// NewPublisher creates a publisher with the given per-write timeout.
func NewPublisher(sendTimeout time.Duration) *Publisher {
	return &Publisher{
		subscribers: make(map[net.Conn]*json.Encoder),
		sendTimeout: sendTimeout,
	}
}

// Subscribe registers conn and sends snap as the initial state line.
func (p *Publisher) Subscribe(conn net.Conn, snap editor.Snapshot) {
	p.mu.Lock()
	enc := json.NewEncoder(conn)
	p.subscribers[conn] = enc
	p.mu.Unlock()

	log.Debug("State subscriber added", "remote", conn.RemoteAddr())
	p.send(conn, enc, snap)
}

// Unsubscribe removes and closes conn.
func (p *Publisher) Unsubscribe(conn net.Conn) {
	p.mu.Lock()
	_, ok := p.subscribers[conn]
	delete(p.subscribers, conn)
	p.mu.Unlock()
	if ok {
		conn.Close()
		log.Debug("State subscriber removed", "remote", conn.RemoteAddr())
	}
}

// SubscriberCount returns the number of live subscribers.
func (p *Publisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}

// Broadcast sends snap to every subscriber, dropping the ones that fail.
func (p *Publisher) Broadcast(snap editor.Snapshot) {
	p.mu.Lock()
	conns := make(map[net.Conn]*json.Encoder, len(p.subscribers))
	for c, e := range p.subscribers {
		conns[c] = e
	}
	p.mu.Unlock()

	for conn, enc := range conns {
		p.send(conn, enc, snap)
	}
}

func (p *Publisher) send(conn net.Conn, enc *json.Encoder, snap editor.Snapshot) {
	if err := conn.SetWriteDeadline(time.Now().Add(p.sendTimeout)); err != nil {
		p.Unsubscribe(conn)
		return
	}
	if err := enc.Encode(snap); err != nil {
		log.Debug("State send failed, dropping subscriber", "remote", conn.RemoteAddr(), "error", err)
		p.Unsubscribe(conn)
	}
}

// Close drops every subscriber.
func (p *Publisher) Close() {
	p.mu.Lock()
	conns := make([]net.Conn, 0, len(p.subscribers))
	for c := range p.subscribers {
		conns = append(conns, c)
	}
	p.mu.Unlock()
	for _, c := range conns {
		p.Unsubscribe(c)
	}
}

// serveState accepts state subscribers on the state port.
func (s *Server) serveState(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.StateAddr())
	if err != nil {
		return failure.Translate(err, ListenFailed,
			failure.Message("Failed to bind state port"),
			failure.Context{"addr": s.settings.StateAddr()},
		)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
		s.publisher.Close()
	}()
	log.Info("State publisher ready", "addr", s.settings.StateAddr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn("State accept failed", "error", err)
			continue
		}
		snap, err := s.registry.Loop().Snapshot()
		if err != nil {
			conn.Close()
			continue
		}
		s.publisher.Subscribe(conn, snap)
	}
}
