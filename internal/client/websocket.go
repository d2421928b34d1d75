// ABOUTME: WebSocket client for the waveform render service
// ABOUTME: Sends render jobs over /ws and collects the result and image
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned when a job is sent before Connect
var ErrNotConnected = errors.New("not connected")

// Config holds client configuration
type Config struct {
	ServerAddr string        // host:port of the render server
	Timeout    time.Duration // Per-job reply timeout; zero means one minute
}

// Client runs render jobs over one WebSocket connection. Jobs are
// serialized; Render may be called from several goroutines.
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.Mutex

	connected bool
}

// RemoteError is a server/error reply
type RemoteError struct {
	protocol.ErrorPayload
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("render server error (%s): %s", e.ErrorPayload.Error, e.Message)
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &Client{
		config: config,
	}
}

// Connect establishes the WebSocket connection
func (c *Client) Connect(ctx context.Context) error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	return nil
}

// Render sends one job and waits for the reply. It returns the result and
// the encoded image, or a *RemoteError when the server rejects the job.
func (c *Client) Render(req protocol.RenderRequest, audioData []byte) (*protocol.RenderResult, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, nil, ErrNotConnected
	}

	deadline := time.Now().Add(c.config.Timeout)
	c.conn.SetWriteDeadline(deadline)
	c.conn.SetReadDeadline(deadline)
	defer c.conn.SetReadDeadline(time.Time{})

	msg := protocol.Message{
		Type:    protocol.TypeRenderRequest,
		Payload: req,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return nil, nil, fmt.Errorf("failed to send render/request: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audioData); err != nil {
		return nil, nil, fmt.Errorf("failed to send audio: %w", err)
	}

	result, err := c.readResult()
	if err != nil {
		return nil, nil, err
	}

	msgType, image, err := c.conn.ReadMessage()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	if msgType != websocket.BinaryMessage {
		return nil, nil, fmt.Errorf("expected binary image, got message type %d", msgType)
	}

	return result, image, nil
}

// readResult reads the text reply to a job
func (c *Client) readResult() (*protocol.RenderResult, error) {
	msgType, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("expected text reply, got message type %d", msgType)
	}

	var reply struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse reply: %w", err)
	}

	switch reply.Type {
	case protocol.TypeRenderResult:
		var result protocol.RenderResult
		if err := json.Unmarshal(reply.Payload, &result); err != nil {
			return nil, fmt.Errorf("failed to parse render/result: %w", err)
		}
		return &result, nil

	case protocol.TypeServerError:
		var payload protocol.ErrorPayload
		if err := json.Unmarshal(reply.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse server/error: %w", err)
		}
		return nil, &RemoteError{ErrorPayload: payload}

	default:
		return nil, fmt.Errorf("unexpected reply type: %s", reply.Type)
	}
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
