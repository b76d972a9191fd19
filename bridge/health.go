package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/umcp/umcp/log"
)

// Health is the /health payload.
type Health struct {
	Status        string   `json:"status"`
	RunMode       string   `json:"runMode"`
	CommandPort   int      `json:"commandPort"`
	StatePort     int      `json:"statePort"`
	Commands      []string `json:"commands"`
	Subscribers   int      `json:"subscribers"`
	UptimeSeconds int64    `json:"uptimeSeconds"`
}

// serveManagement runs the /health and /state endpoints on the management
// port (command port + 1).
func (s *Server) serveManagement(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/state", s.handleState)

	addr := fmt.Sprintf("%s:%d", s.settings.BindAddress, s.settings.ManagementPort())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Management endpoints ready", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.Loop().Snapshot()
	if err != nil {
		http.Error(w, "editor loop unavailable", http.StatusServiceUnavailable)
		return
	}

	h := Health{
		Status:        "healthy",
		RunMode:       snap.RunMode.DisplayString(),
		CommandPort:   s.settings.CommandPort,
		StatePort:     s.settings.StatePort,
		Commands:      s.registry.Names(),
		Subscribers:   s.publisher.SubscriberCount(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h); err != nil {
		log.Warn("Failed to encode health payload", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.registry.Loop().Snapshot()
	if err != nil {
		// Fall back to the cached snapshot when the loop is wedged.
		cached, ok := s.CachedSnapshot()
		if !ok {
			http.Error(w, "no state available", http.StatusServiceUnavailable)
			return
		}
		snap = cached
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Warn("Failed to encode state payload", "error", err)
	}
}
