// ABOUTME: Entry point for the waveform renderer CLI
// ABOUTME: Decodes an audio file or URL and writes waveform bitmaps
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/resonate-waveform/internal/batch"
	"github.com/Resonate-Protocol/resonate-waveform/internal/client"
	"github.com/Resonate-Protocol/resonate-waveform/internal/discovery"
	"github.com/Resonate-Protocol/resonate-waveform/internal/fetch"
	"github.com/Resonate-Protocol/resonate-waveform/internal/protocol"
	"github.com/Resonate-Protocol/resonate-waveform/internal/ui"
	"github.com/Resonate-Protocol/resonate-waveform/internal/version"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/audio/decode"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/imagesink"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/waveform"
)

var (
	input       = flag.String("in", "", "Audio file or http(s) URL to render (WAV, MP3, FLAC, Opus, Vorbis, raw PCM)")
	output      = flag.String("out", "", "Output image path, or output directory with -all (default: waveform.png or .)")
	format      = flag.String("format", "", "Image format: png, jpeg, bmp, tiff (default: from -out extension, png with -all)")
	width       = flag.Int("width", 3200, "Image width in pixels")
	height      = flag.Int("height", 800, "Image height in pixels")
	barWidth    = flag.Int("bar-width", 20, "Bar width in pixels")
	barPadding  = flag.Int("bar-padding", 5, "Gap between bars in pixels")
	mode        = flag.String("mode", "half", "Layout mode: half, full, full-symmetry")
	scale       = flag.String("scale", "linear", "Amplitude scale: linear, logarithm")
	fillColor   = flag.String("color", "#ffffffff", "Bar color as #rrggbb or #rrggbbaa")
	channel     = flag.Int("channel", 0, "Channel to plot (0 = first)")
	all         = flag.Bool("all", false, "Render every mode/scale combination into the -out directory")
	useTUI      = flag.Bool("tui", false, "Show a progress view while rendering with -all")
	logFile     = flag.String("log-file", "", "Also write logs to this file")
	discover    = flag.Bool("discover", false, "List render servers on the local network and exit")
	serverAddr  = flag.String("server", "", "Render on a remote waveform server (host:port) instead of locally")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up logging
	var logOut io.Writer = os.Stderr
	if *useTUI {
		// The progress view owns the terminal
		logOut = io.Discard
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer func() { _ = f.Close() }()
		logOut = io.MultiWriter(logOut, f)
	}
	log.SetOutput(logOut)

	if *discover {
		if err := listServers(5 * time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "waveform: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: waveform -in <file|url> [-out path] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "waveform: %v\n", err)
		log.Printf("Render failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := renderConfig()
	if err != nil {
		return err
	}

	path := *input
	if fetch.IsRemote(path) {
		dl, err := fetch.NewDownloader("")
		if err != nil {
			return err
		}
		path, err = dl.Download(ctx, *input)
		if err != nil {
			return err
		}
	}

	if *serverAddr != "" {
		if *all {
			return fmt.Errorf("-all cannot be combined with -server")
		}
		return renderRemote(ctx, path, cfg)
	}

	log.Printf("Decoding %s", path)
	clip, err := decode.DecodeFile(path)
	if err != nil {
		return err
	}
	log.Printf("Decoded %s: %dHz, %d channels, %.1fs", clip.Format.Codec,
		clip.Format.SampleRate, clip.Format.Channels, clip.Duration())

	samples, err := clip.Channel(*channel)
	if err != nil {
		return err
	}

	if *all {
		return renderAll(ctx, samples, cfg)
	}
	return renderOne(samples, cfg)
}

// renderConfig builds the render config from flags
func renderConfig() (waveform.Config, error) {
	return buildConfig(*width, *height, *barWidth, *barPadding, *mode, *scale, *fillColor)
}

func buildConfig(w, h, bw, bp int, modeName, scaleName, colorStr string) (waveform.Config, error) {
	m, err := waveform.ParseMode(modeName)
	if err != nil {
		return waveform.Config{}, err
	}
	s, err := waveform.ParseScale(scaleName)
	if err != nil {
		return waveform.Config{}, err
	}
	c, err := waveform.ParseColor(colorStr)
	if err != nil {
		return waveform.Config{}, err
	}

	cfg := waveform.Config{
		Width:      w,
		Height:     h,
		BarWidth:   bw,
		BarPadding: bp,
		Mode:       m,
		Scale:      s,
		Color:      c,
	}
	if err := cfg.Validate(); err != nil {
		return waveform.Config{}, err
	}
	return cfg, nil
}

// outputEncoder picks the encoder from -format, falling back to the output
// file extension
func outputEncoder(formatName, outPath string) (imagesink.Encoder, error) {
	if formatName != "" {
		return imagesink.New(formatName)
	}
	return imagesink.FormatForPath(outPath)
}

func renderOne(samples []int16, cfg waveform.Config) error {
	outPath := *output
	if outPath == "" {
		outPath = "waveform.png"
	}

	enc, err := outputEncoder(*format, outPath)
	if err != nil {
		return err
	}

	img, err := waveform.Render(samples, cfg)
	if err != nil {
		return err
	}
	if err := imagesink.WriteFile(outPath, img, enc); err != nil {
		return err
	}

	log.Printf("Wrote %s (%dx%d, %d bars)", outPath, cfg.Width, cfg.Height,
		waveform.BarCount(cfg.Width, cfg.BarWidth, cfg.BarPadding))
	return nil
}

// renderRemote sends the encoded input to a render server and writes the
// returned image
func renderRemote(ctx context.Context, path string, cfg waveform.Config) error {
	codec, err := decode.CodecForPath(path)
	if err != nil {
		return err
	}

	outPath := *output
	if outPath == "" {
		outPath = "waveform.png"
	}
	enc, err := outputEncoder(*format, outPath)
	if err != nil {
		return err
	}

	audioData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	c := client.NewClient(client.Config{ServerAddr: *serverAddr})
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Close()

	padding := cfg.BarPadding
	result, image, err := c.Render(protocol.RenderRequest{
		Codec:      codec,
		Channel:    *channel,
		Width:      cfg.Width,
		Height:     cfg.Height,
		BarWidth:   cfg.BarWidth,
		BarPadding: &padding,
		Mode:       cfg.Mode.String(),
		Scale:      cfg.Scale.String(),
		Color:      waveform.FormatColor(cfg.Color),
		Format:     enc.Format(),
	}, audioData)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, image, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	log.Printf("Wrote %s (job %s, %d bars) via %s", outPath, result.JobID, result.Bars, *serverAddr)
	return nil
}

func renderAll(ctx context.Context, samples []int16, cfg waveform.Config) error {
	outDir := *output
	if outDir == "" {
		outDir = "."
	}

	formatName := *format
	if formatName == "" {
		formatName = "png"
	}
	enc, err := imagesink.New(formatName)
	if err != nil {
		return err
	}

	bc := batch.Config{
		OutDir:  outDir,
		Base:    cfg,
		Encoder: enc,
		OnProgress: func(done, total int, path string) {
			log.Printf("[%d/%d] Wrote %s", done, total, path)
		},
	}

	if !*useTUI {
		_, err := batch.Run(ctx, samples, bc)
		return err
	}

	paths, err := ui.Run(ctx, "Rendering waveforms into "+outDir, func(ctx context.Context, report ui.Reporter) error {
		logProgress := bc.OnProgress
		bc.OnProgress = func(done, total int, path string) {
			logProgress(done, total, path)
			report(done, total, path)
		}
		_, err := batch.Run(ctx, samples, bc)
		return err
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

// serverBrowser is the part of discovery.Manager used by -discover
type serverBrowser interface {
	Browse() error
	Servers() <-chan *discovery.ServerInfo
	Stop()
}

// listServers prints render servers found over mDNS within timeout
func listServers(timeout time.Duration) error {
	return browseServers(discovery.NewManager(discovery.Config{}), timeout, os.Stdout)
}

// browseServers prints each distinct server seen on disc until timeout.
// disc is always stopped.
func browseServers(disc serverBrowser, timeout time.Duration, out io.Writer) error {
	defer disc.Stop()

	if err := disc.Browse(); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	seen := make(map[string]bool)
	deadline := time.After(timeout)
	for {
		select {
		case srv := <-disc.Servers():
			addr := fmt.Sprintf("%s:%d", srv.Host, srv.Port)
			if seen[addr] {
				continue
			}
			seen[addr] = true
			fmt.Fprintf(out, "%s\thttp://%s\n", srv.Name, addr)
		case <-deadline:
			if len(seen) == 0 {
				fmt.Fprintln(os.Stderr, "no render servers found")
			}
			return nil
		}
	}
}
