// ABOUTME: Main server implementation for the waveform render service
// ABOUTME: Serves HTTP and WebSocket render endpoints and advertises over mDNS
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/resonate-waveform/internal/discovery"
	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/Resonate-Protocol/resonate-waveform/internal/version"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio/decode"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/imagesink"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/waveform"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// DefaultMaxUploadBytes caps the encoded audio accepted per job
	DefaultMaxUploadBytes = 256 << 20
	// DefaultMaxPixels caps width x height of a rendered image (128 MiB of NRGBA)
	DefaultMaxPixels = 32 << 20
)

// Config holds server configuration
type Config struct {
	Port           int
	Name           string
	EnableMDNS     bool
	Debug          bool
	MaxUploadBytes int64           // Zero means DefaultMaxUploadBytes
	MaxPixels      int64           // Zero means DefaultMaxPixels
	Defaults       waveform.Config // Applied to request fields left unset
}

// Server renders waveforms for HTTP and WebSocket clients
type Server struct {
	config   Config
	serverID string

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Open WebSocket sessions, closed on shutdown
	sessions   map[*websocket.Conn]struct{}
	sessionsMu sync.Mutex

	jobs atomic.Int64

	// mDNS discovery
	mdnsManager *discovery.Manager

	// Control
	stopChan   chan struct{}
	stopOnce   sync.Once // Ensure Stop() is only called once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// New creates a new server instance
func New(config Config) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if config.MaxPixels <= 0 {
		config.MaxPixels = DefaultMaxPixels
	}
	if config.Name == "" {
		config.Name = version.Product
	}
	if config.Defaults == (waveform.Config{}) {
		config.Defaults = waveform.DefaultConfig()
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Render service runs on trusted local networks
				origin := r.Header.Get("Origin")
				if origin != "" && config.Debug {
					log.Printf("[DEBUG] accepting WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		sessions: make(map[*websocket.Conn]struct{}),
		stopChan: make(chan struct{}),
	}

	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/render", s.handleRender)
	s.mux.HandleFunc("/ws", s.handleWebSocket)

	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ID returns the server's unique identifier
func (s *Server) ID() string {
	return s.serverID
}

// JobCount returns the number of jobs started since the server was created
func (s *Server) JobCount() int64 {
	return s.jobs.Load()
}

// Start runs the server until Stop is called or the listener fails
func (s *Server) Start() error {
	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	// Start mDNS advertisement if enabled
	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			Path:        "/render",
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Render server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	// Mark server as shutting down to reject new connections
	s.shutdownMu.Lock()
	s.isShutdown = true
	s.shutdownMu.Unlock()

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Hijacked WebSocket connections are not closed by Shutdown
	s.closeSessions()
	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Server) shuttingDown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.isShutdown
}

func (s *Server) closeSessions() {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	for conn := range s.sessions {
		conn.Close()
	}
}

// handleHealth reports server identity and capabilities
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "", protocol.ErrBadRequest, "method not allowed")
		return
	}

	info := protocol.ServerInfo{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  version.Version,
		Codecs:   decode.Codecs(),
		Formats:  imagesink.Formats(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.Printf("Error writing health response: %v", err)
	}
}

// writeError sends a JSON error body with the given status
func writeError(w http.ResponseWriter, status int, jobID, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(protocol.ErrorPayload{
		JobID:   jobID,
		Error:   code,
		Message: message,
	})
}
