// ABOUTME: Render service message type definitions
// ABOUTME: Defines the JSON envelopes exchanged over the WebSocket render API
package protocol

// Message types used on the WebSocket render API
const (
	TypeRenderRequest = "render/request"
	TypeRenderResult  = "render/result"
	TypeServerError   = "server/error"
)

// Error codes carried in ErrorPayload.Error
const (
	ErrBadRequest        = "bad_request"
	ErrUnsupportedMedia  = "unsupported_media"
	ErrPayloadTooLarge   = "payload_too_large"
	ErrUnexpectedMessage = "unexpected_message"
	ErrInternal          = "internal_error"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RenderRequest describes one render job. Zero values fall back to the
// server's defaults. The encoded audio follows as a binary message.
type RenderRequest struct {
	Codec      string `json:"codec"`                 // pcm, wav, mp3, flac, opus or vorbis
	SampleRate int    `json:"sample_rate,omitempty"` // Raw PCM only
	Channels   int    `json:"channels,omitempty"`    // Raw PCM only
	Channel    int    `json:"channel,omitempty"`     // Channel to plot
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	BarWidth   int    `json:"bar_width,omitempty"`
	BarPadding *int   `json:"bar_padding,omitempty"` // Pointer so zero padding can be requested
	Mode       string `json:"mode,omitempty"`
	Scale      string `json:"scale,omitempty"`
	Color      string `json:"color,omitempty"` // #rrggbb or #rrggbbaa
	Format     string `json:"format,omitempty"` // png, jpeg, bmp or tiff
}

// RenderResult announces a finished render. The encoded image follows as a
// binary message.
type RenderResult struct {
	JobID       string  `json:"job_id"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Bars        int     `json:"bars"`
	Format      string  `json:"format"`
	ContentType string  `json:"content_type"`
	Duration    float64 `json:"duration"` // Audio length in seconds
	Bytes       int     `json:"bytes"`
}

// ErrorPayload reports a failed request
type ErrorPayload struct {
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServerInfo is returned by the health endpoint
type ServerInfo struct {
	ServerID string   `json:"server_id"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Codecs   []string `json:"codecs"`
	Formats  []string `json:"formats"`
}
