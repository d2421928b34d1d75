// ABOUTME: Entry point for the waveform render service
// ABOUTME: Parses CLI flags and starts the HTTP/WebSocket render server
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/resonate-waveform/internal/server"
	"github.com/Resonate-Protocol/resonate-waveform/internal/version"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/waveform"
)

var (
	port        = flag.Int("port", 8928, "HTTP server port")
	name        = flag.String("name", "", "Server friendly name (default: hostname-waveform-server)")
	logFile     = flag.String("log-file", "waveform-server.log", "Log file path")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	noMDNS      = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	maxUploadMB = flag.Int64("max-upload-mb", server.DefaultMaxUploadBytes>>20, "Largest accepted audio upload in MiB")
	maxPixels   = flag.Int64("max-pixels", server.DefaultMaxPixels, "Largest accepted image area (width x height)")
	width       = flag.Int("width", 3200, "Default image width")
	height      = flag.Int("height", 800, "Default image height")
	barWidth    = flag.Int("bar-width", 20, "Default bar width")
	barPadding  = flag.Int("bar-padding", 5, "Default gap between bars")
	mode        = flag.String("mode", "half", "Default layout mode: half, full, full-symmetry")
	scale       = flag.String("scale", "linear", "Default amplitude scale: linear, logarithm")
	fillColor   = flag.String("color", "#ffffffff", "Default bar color")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	multiWriter := io.MultiWriter(os.Stdout, f)
	log.SetOutput(multiWriter)

	// Determine server name
	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-waveform-server", hostname)
	}

	defaults, err := defaultRenderConfig()
	if err != nil {
		log.Fatalf("Invalid default render settings: %v", err)
	}
	if int64(defaults.Width)*int64(defaults.Height) > *maxPixels {
		log.Fatalf("Default image %dx%d exceeds -max-pixels %d", defaults.Width, defaults.Height, *maxPixels)
	}

	log.Printf("Starting %s: %s on port %d", version.String(), serverName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	srv := server.New(server.Config{
		Port:           *port,
		Name:           serverName,
		EnableMDNS:     !*noMDNS,
		Debug:          *debug,
		MaxUploadBytes: *maxUploadMB << 20,
		MaxPixels:      *maxPixels,
		Defaults:       defaults,
	})

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}

func defaultRenderConfig() (waveform.Config, error) {
	m, err := waveform.ParseMode(*mode)
	if err != nil {
		return waveform.Config{}, err
	}
	s, err := waveform.ParseScale(*scale)
	if err != nil {
		return waveform.Config{}, err
	}
	c, err := waveform.ParseColor(*fillColor)
	if err != nil {
		return waveform.Config{}, err
	}

	cfg := waveform.Config{
		Width:      *width,
		Height:     *height,
		BarWidth:   *barWidth,
		BarPadding: *barPadding,
		Mode:       m,
		Scale:      s,
		Color:      c,
	}
	return cfg, cfg.Validate()
}
