// ABOUTME: WebSocket render endpoint
// ABOUTME: Runs render jobs as request/audio message pairs on one connection
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeDeadline = 10 * time.Second

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	if !s.registerSession(conn) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)

	defer s.wg.Done()
	s.handleConnection(conn)
}

// registerSession tracks conn for shutdown. The shutdown check, the wait
// group increment and the map insert happen under shutdownMu so Start either
// sees the session in closeSessions or the session sees isShutdown.
func (s *Server) registerSession(conn *websocket.Conn) bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	if s.isShutdown {
		return false
	}

	s.wg.Add(1)
	s.sessionsMu.Lock()
	s.sessions[conn] = struct{}{}
	s.sessionsMu.Unlock()
	return true
}

// handleConnection serves render jobs until the client disconnects. Each job
// is a text render/request followed by one binary message with the audio.
// The session must already be registered.
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer func() {
		s.sessionsMu.Lock()
		delete(s.sessions, conn)
		s.sessionsMu.Unlock()
		conn.Close()
		log.Printf("WebSocket connection closed: %s", conn.RemoteAddr())
	}()

	// Request JSON plus the audio payload
	conn.SetReadLimit(s.config.MaxUploadBytes + 64<<10)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			s.sendError(conn, "", protocol.ErrUnexpectedMessage, "expected render/request before audio")
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(conn, "", protocol.ErrBadRequest, fmt.Sprintf("invalid message: %v", err))
			continue
		}
		if msg.Type != protocol.TypeRenderRequest {
			s.sendError(conn, "", protocol.ErrUnexpectedMessage, fmt.Sprintf("unknown message type: %s", msg.Type))
			continue
		}

		req, reqErr := decodeRequest(msg.Payload)

		// The audio always follows a render/request, even a malformed one
		msgType, audioData, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error reading audio: %v", err)
			}
			return
		}

		if reqErr != nil {
			if !s.sendError(conn, "", protocol.ErrBadRequest, reqErr.Error()) {
				return
			}
			continue
		}

		if !s.runSessionJob(conn, req, msgType, audioData) {
			return
		}
	}
}

// runSessionJob executes one job and writes its reply. It returns false when
// the connection can no longer be written to.
func (s *Server) runSessionJob(conn *websocket.Conn, req protocol.RenderRequest, msgType int, audioData []byte) bool {
	jobID := uuid.New().String()
	s.jobs.Add(1)

	if msgType != websocket.BinaryMessage {
		return s.sendError(conn, jobID, protocol.ErrUnexpectedMessage, "expected binary audio after render/request")
	}

	j, err := s.newJob(jobID, req)
	if err != nil {
		_, code := classify(err)
		return s.sendError(conn, jobID, code, err.Error())
	}

	if s.config.Debug {
		log.Printf("[DEBUG] Job %s: %d bytes of %s over WebSocket", jobID, len(audioData), j.format.Codec)
	}

	res, err := j.run(audioData)
	if err != nil {
		_, code := classify(err)
		log.Printf("Job %s failed: %v", jobID, err)
		return s.sendError(conn, jobID, code, err.Error())
	}

	if err := s.writeJSON(conn, protocol.TypeRenderResult, res.RenderResult); err != nil {
		log.Printf("Error sending render result: %v", err)
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteMessage(websocket.BinaryMessage, res.image); err != nil {
		log.Printf("Error writing image: %v", err)
		return false
	}

	log.Printf("Job %s rendered: %d bars, %d bytes %s", jobID, res.Bars, res.Bytes, res.Format)
	return true
}

// decodeRequest converts a generic JSON payload into a RenderRequest
func decodeRequest(payload interface{}) (protocol.RenderRequest, error) {
	var req protocol.RenderRequest

	reqData, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("invalid render request: %w", err)
	}
	if err := json.Unmarshal(reqData, &req); err != nil {
		return req, fmt.Errorf("invalid render request: %w", err)
	}
	return req, nil
}

// sendError writes a server/error message and reports whether the write succeeded
func (s *Server) sendError(conn *websocket.Conn, jobID, code, message string) bool {
	payload := protocol.ErrorPayload{
		JobID:   jobID,
		Error:   code,
		Message: message,
	}
	if err := s.writeJSON(conn, protocol.TypeServerError, payload); err != nil {
		log.Printf("Error sending server error: %v", err)
		return false
	}
	return true
}

// writeJSON sends a typed JSON message
func (s *Server) writeJSON(conn *websocket.Conn, msgType string, payload interface{}) error {
	data, err := json.Marshal(protocol.Message{
		Type:    msgType,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteMessage(websocket.TextMessage, data)
}
