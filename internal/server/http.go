// ABOUTME: HTTP render endpoint
// ABOUTME: Accepts encoded audio in the request body and returns the bitmap
package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/google/uuid"
)

// handleRender serves POST /render. Parameters come from the query string,
// the body is the encoded audio.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "", protocol.ErrBadRequest, "method not allowed")
		return
	}

	jobID := uuid.New().String()
	s.jobs.Add(1)

	req, err := parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, jobID, protocol.ErrBadRequest, err.Error())
		return
	}

	j, err := s.newJob(jobID, req)
	if err != nil {
		status, code := classify(err)
		writeError(w, status, jobID, code, err.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = fmt.Errorf("%w: limit is %d bytes", errTooLarge, maxErr.Limit)
		}
		status, code := classify(err)
		writeError(w, status, jobID, code, err.Error())
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] Job %s: %d bytes of %s, %dx%d %s/%s -> %s",
			jobID, len(data), j.format.Codec, j.config.Width, j.config.Height,
			j.config.Mode, j.config.Scale, j.encoder.Format())
	}

	res, err := j.run(data)
	if err != nil {
		status, code := classify(err)
		log.Printf("Job %s failed: %v", jobID, err)
		writeError(w, status, jobID, code, err.Error())
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.image)))
	w.Header().Set("X-Job-ID", jobID)
	if _, err := w.Write(res.image); err != nil {
		log.Printf("Error writing image for job %s: %v", jobID, err)
		return
	}

	log.Printf("Job %s rendered: %d bars, %.1fs of audio, %d bytes %s",
		jobID, res.Bars, res.Duration, res.Bytes, res.Format)
}

// parseQuery reads render parameters from query values
func parseQuery(q url.Values) (protocol.RenderRequest, error) {
	req := protocol.RenderRequest{
		Codec:  q.Get("codec"),
		Mode:   q.Get("mode"),
		Scale:  q.Get("scale"),
		Color:  q.Get("color"),
		Format: q.Get("format"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &req.Width},
		{"height", &req.Height},
		{"bar_width", &req.BarWidth},
		{"channel", &req.Channel},
		{"sample_rate", &req.SampleRate},
		{"channels", &req.Channels},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid %s: %q", p.name, v)
		}
		*p.dst = n
	}

	if v := q.Get("bar_padding"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid bar_padding: %q", v)
		}
		req.BarPadding = &n
	}

	return req, nil
}
