// ABOUTME: Tests for remote audio downloader
// ABOUTME: Tests HTTP download, caching, extension detection and errors
package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	dl, err := NewDownloader(dir)
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	// Verify cache directory was created
	if _, err := os.Stat(dl.CacheDir()); os.IsNotExist(err) {
		t.Error("cache directory was not created")
	}
}

func TestNewDownloader_DefaultDir(t *testing.T) {
	dl, err := NewDownloader("")
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	if !strings.HasPrefix(dl.CacheDir(), os.TempDir()) {
		t.Error("cache directory should be in temp dir")
	}
	if !strings.Contains(dl.CacheDir(), DefaultCacheDirName) {
		t.Errorf("cache directory should contain %q", DefaultCacheDirName)
	}
}

func TestDownloadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fake audio data"))
	}))
	defer server.Close()

	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	path, err := dl.Download(context.Background(), server.URL+"/episode.flac")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	if filepath.Ext(path) != ".flac" {
		t.Errorf("expected .flac extension, got %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != "fake audio data" {
		t.Errorf("expected content 'fake audio data', got '%s'", string(content))
	}
}

func TestDownloadCaching(t *testing.T) {
	requestCount := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fake audio data"))
	}))
	defer server.Close()

	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	// First download - should hit server
	path1, err := dl.Download(context.Background(), server.URL+"/a.mp3")
	if err != nil {
		t.Fatalf("first download failed: %v", err)
	}

	// Second download - should use cache
	path2, err := dl.Download(context.Background(), server.URL+"/a.mp3")
	if err != nil {
		t.Fatalf("second download failed: %v", err)
	}

	if requestCount != 1 {
		t.Errorf("expected cached download to not hit server, but got %d requests", requestCount)
	}
	if path1 != path2 {
		t.Errorf("expected same path for cached download, got %s and %s", path1, path2)
	}
}

func TestDownloadContentTypeExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-wav")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("RIFF"))
	}))
	defer server.Close()

	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	path, err := dl.Download(context.Background(), server.URL+"/stream?id=7")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if filepath.Ext(path) != ".wav" {
		t.Errorf("expected .wav from content type, got %s", path)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	_, err = dl.Download(context.Background(), server.URL+"/missing.mp3")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected error to mention 404, got: %v", err)
	}

	// A failed download must not leave a cache entry behind
	entries, _ := os.ReadDir(dl.CacheDir())
	if len(entries) != 0 {
		t.Errorf("expected empty cache after failure, found %d entries", len(entries))
	}
}

func TestDownloadEmptyURL(t *testing.T) {
	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	if _, err := dl.Download(context.Background(), ""); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestDownloadInvalidURL(t *testing.T) {
	dl, err := NewDownloader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	if _, err := dl.Download(context.Background(), "not-a-valid-url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com/a.mp3", true},
		{"http://example.com/a.mp3", true},
		{"/home/me/a.mp3", false},
		{"a.mp3", false},
	}

	for _, tt := range tests {
		if result := IsRemote(tt.input); result != tt.expected {
			t.Errorf("IsRemote(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://example.com/audio.mp3", ".mp3"},
		{"http://example.com/audio.FLAC", ".flac"},
		{"http://example.com/audio.ogg?token=abc", ".ogg"},
		{"http://example.com/audio.opus#t=10", ".opus"},
		{"http://example.com/audio", ""},
		{"http://example.com/page.html", ""},
	}

	for _, tt := range tests {
		result := getExtension(tt.url)
		if result != tt.expected {
			t.Errorf("getExtension(%q) = %q, expected %q", tt.url, result, tt.expected)
		}
	}
}

func TestExtensionForContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"audio/flac", ".flac"},
		{"audio/ogg; codecs=vorbis", ".ogg"},
		{"audio/opus", ".opus"},
		{"audio/mpeg", ".mp3"},
		{"", ".mp3"},
	}

	for _, tt := range tests {
		result := extensionForContentType(tt.contentType)
		if result != tt.expected {
			t.Errorf("extensionForContentType(%q) = %q, expected %q", tt.contentType, result, tt.expected)
		}
	}
}

func TestCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	dl, err := NewDownloader(dir)
	if err != nil {
		t.Fatalf("failed to create downloader: %v", err)
	}

	if err := dl.Cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache directory still exists after cleanup")
	}
}
