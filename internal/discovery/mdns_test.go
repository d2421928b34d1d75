// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager setup, TXT records and shutdown
package discovery

import (
	"testing"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Test Renderer",
		Port:        8928,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.Servers() == nil {
		t.Error("expected servers channel")
	}
}

func TestTXTRecords(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"default path", "", "path=/render"},
		{"custom path", "/ws", "path=/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := NewManager(Config{ServiceName: "r", Port: 1, Path: tt.path})
			txt := mgr.txtRecords()
			if len(txt) != 1 || txt[0] != tt.expected {
				t.Errorf("expected [%s], got %v", tt.expected, txt)
			}
		})
	}
}

func TestStopCancelsContext(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "r", Port: 1})
	mgr.Stop()

	select {
	case <-mgr.ctx.Done():
	default:
		t.Error("expected context to be cancelled after Stop")
	}
}
