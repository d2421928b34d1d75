// ABOUTME: Remote audio downloader for http(s) inputs
// ABOUTME: Downloads audio files from URLs into a hash-keyed temp cache
package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCacheDirName is created under os.TempDir() when no cache dir is given
const DefaultCacheDirName = "resonate-waveform"

// Downloader manages audio downloads
type Downloader struct {
	cacheDir string
	client   *http.Client
}

// NewDownloader creates a downloader caching into cacheDir, or into
// os.TempDir()/resonate-waveform when cacheDir is empty
func NewDownloader(cacheDir string) (*Downloader, error) {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), DefaultCacheDirName)
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Downloader{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

// IsRemote reports whether input should be fetched over HTTP
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Download fetches url into the cache and returns the local path. The file
// keeps an audio extension so decoders can be picked from the name.
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Create a cache key from URL hash
	hash := sha256.Sum256([]byte(url))
	key := filepath.Join(d.cacheDir, fmt.Sprintf("%x", hash[:8]))

	// Check if already cached
	if matches, _ := filepath.Glob(key + ".*"); len(matches) > 0 {
		log.Printf("Audio cache hit: %s", matches[0])
		return matches[0], nil
	}

	log.Printf("Downloading audio: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio download failed: HTTP %d", resp.StatusCode)
	}

	ext := getExtension(url)
	if ext == "" {
		ext = extensionForContentType(resp.Header.Get("Content-Type"))
	}
	cachePath := key + ext

	// Write to a temp name first so a failed download never looks cached
	tmp, err := os.CreateTemp(d.cacheDir, "partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save audio: %w", err)
	}

	log.Printf("Audio saved: %s", cachePath)
	return cachePath, nil
}

// CacheDir returns the directory downloads are stored in
func (d *Downloader) CacheDir() string {
	return d.cacheDir
}

// Cleanup removes the cache directory
func (d *Downloader) Cleanup() error {
	return os.RemoveAll(d.cacheDir)
}

// getExtension extracts a known audio extension from a URL path
func getExtension(url string) string {
	// Remove query string and fragment
	url = strings.SplitN(url, "?", 2)[0]
	url = strings.SplitN(url, "#", 2)[0]

	ext := strings.ToLower(filepath.Ext(url))
	switch ext {
	case ".wav", ".wave", ".mp3", ".flac", ".opus", ".ogg", ".oga", ".pcm", ".raw":
		return ext
	default:
		return ""
	}
}

// extensionForContentType maps an audio MIME type to a file extension,
// defaulting to .mp3 which most podcast feeds serve
func extensionForContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".mp3"
	}

	switch mediaType {
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return ".wav"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/opus":
		return ".opus"
	case "audio/ogg", "audio/vorbis", "application/ogg":
		return ".ogg"
	default:
		return ".mp3"
	}
}
