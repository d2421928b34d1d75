// ABOUTME: Render job resolution and execution
// ABOUTME: Merges request parameters with server defaults, decodes audio and encodes the bitmap
package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio/decode"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/imagesink"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/waveform"
)

var (
	errMissingCodec  = errors.New("missing audio codec")
	errEmptyAudio    = errors.New("empty audio payload")
	errTooLarge      = errors.New("audio payload too large")
	errTooManyPixels = errors.New("image too large")
	errEncodeFailed  = errors.New("image encode failed")
)

// job is a fully resolved render request
type job struct {
	id      string
	format  audio.Format
	channel int
	config  waveform.Config
	encoder imagesink.Encoder
}

// jobResult is the encoded output of one job
type jobResult struct {
	protocol.RenderResult
	image []byte
}

// newJob resolves req against the server defaults. Every parameter is
// checked before any audio is decoded.
func (s *Server) newJob(id string, req protocol.RenderRequest) (*job, error) {
	if req.Codec == "" {
		return nil, errMissingCodec
	}
	if !supportedCodec(req.Codec) {
		return nil, fmt.Errorf("%w: codec %q", decode.ErrUnsupportedFormat, req.Codec)
	}
	if req.Channel < 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrNoChannel, req.Channel)
	}

	cfg := s.config.Defaults
	if req.Width != 0 {
		cfg.Width = req.Width
	}
	if req.Height != 0 {
		cfg.Height = req.Height
	}
	if req.BarWidth != 0 {
		cfg.BarWidth = req.BarWidth
	}
	if req.BarPadding != nil {
		cfg.BarPadding = *req.BarPadding
	}
	if req.Mode != "" {
		mode, err := waveform.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}
	if req.Scale != "" {
		scale, err := waveform.ParseScale(req.Scale)
		if err != nil {
			return nil, err
		}
		cfg.Scale = scale
	}
	if req.Color != "" {
		c, err := waveform.ParseColor(req.Color)
		if err != nil {
			return nil, err
		}
		cfg.Color = c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > s.config.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", errTooManyPixels, cfg.Width, cfg.Height, s.config.MaxPixels)
	}

	imageFormat := req.Format
	if imageFormat == "" {
		imageFormat = "png"
	}
	enc, err := imagesink.New(imageFormat)
	if err != nil {
		return nil, err
	}

	format := audio.Format{
		Codec:      req.Codec,
		SampleRate: req.SampleRate,
		Channels:   req.Channels,
		BitDepth:   16,
	}
	if format.Codec == "pcm" && format.SampleRate == 0 {
		format.SampleRate = 44100
	}

	return &job{
		id:      id,
		format:  format,
		channel: req.Channel,
		config:  cfg,
		encoder: enc,
	}, nil
}

// run decodes data, renders the selected channel and encodes the image
func (j *job) run(data []byte) (*jobResult, error) {
	if len(data) == 0 {
		return nil, errEmptyAudio
	}

	clip, err := decode.DecodeReader(bytes.NewReader(data), j.format)
	if err != nil {
		return nil, err
	}

	samples, err := clip.Channel(j.channel)
	if err != nil {
		return nil, err
	}

	img, err := waveform.Render(samples, j.config)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := j.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", errEncodeFailed, err)
	}

	return &jobResult{
		RenderResult: protocol.RenderResult{
			JobID:       j.id,
			Width:       j.config.Width,
			Height:      j.config.Height,
			Bars:        waveform.BarCount(j.config.Width, j.config.BarWidth, j.config.BarPadding),
			Format:      j.encoder.Format(),
			ContentType: j.encoder.ContentType(),
			Duration:    clip.Duration(),
			Bytes:       buf.Len(),
		},
		image: buf.Bytes(),
	}, nil
}

func supportedCodec(codec string) bool {
	for _, c := range decode.Codecs() {
		if c == codec {
			return true
		}
	}
	return false
}

// classify maps a job error to an HTTP status and protocol error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errTooLarge), errors.Is(err, errTooManyPixels):
		return http.StatusRequestEntityTooLarge, protocol.ErrPayloadTooLarge
	case errors.Is(err, decode.ErrUnsupportedFormat), errors.Is(err, imagesink.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, protocol.ErrUnsupportedMedia
	case errors.Is(err, errEncodeFailed):
		return http.StatusInternalServerError, protocol.ErrInternal
	default:
		return http.StatusBadRequest, protocol.ErrBadRequest
	}
}
