// ABOUTME: Batch renderer for every layout and scale combination
// ABOUTME: Writes one image per mode/scale pair and reports progress
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Resonate-Protocol/resonate-waveform/pkg/imagesink"
	"github.com/Resonate-Protocol/resonate-waveform/pkg/waveform"
)

// Config holds batch configuration
type Config struct {
	OutDir  string
	Base    waveform.Config // Mode and Scale are overridden per job
	Encoder imagesink.Encoder

	// OnProgress is called after each image is written
	OnProgress func(done, total int, path string)
}

// Job is one mode/scale combination
type Job struct {
	Mode  waveform.Mode
	Scale waveform.Scale
}

// Jobs returns every combination in mode-major order
func Jobs() []Job {
	var jobs []Job
	for _, mode := range waveform.Modes() {
		for _, scale := range waveform.Scales() {
			jobs = append(jobs, Job{Mode: mode, Scale: scale})
		}
	}
	return jobs
}

// FileName returns waveform_<mode>_<scale><ext>
func (j Job) FileName(ext string) string {
	return fmt.Sprintf("waveform_%s_%s%s", j.Mode, j.Scale, ext)
}

// RenderConfig derives the per-job render config. Half mode only draws
// one side of the signal, so its canvas is half as tall.
func (j Job) RenderConfig(base waveform.Config) waveform.Config {
	cfg := base
	cfg.Mode = j.Mode
	cfg.Scale = j.Scale
	if j.Mode == waveform.Half && cfg.Height > 1 {
		cfg.Height /= 2
	}
	return cfg
}

// Run renders all jobs for samples into cfg.OutDir and returns the written
// paths in job order. It stops at the first failure, or before the next
// job once ctx is done.
func Run(ctx context.Context, samples []int16, cfg Config) ([]string, error) {
	if cfg.Encoder == nil {
		return nil, fmt.Errorf("batch: no image encoder configured")
	}
	if len(samples) == 0 {
		return nil, waveform.ErrNoSamples
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := Jobs()
	paths := make([]string, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		img, err := waveform.Render(samples, job.RenderConfig(cfg.Base))
		if err != nil {
			return paths, fmt.Errorf("render %s/%s: %w", job.Mode, job.Scale, err)
		}

		path := filepath.Join(cfg.OutDir, job.FileName(cfg.Encoder.Extension()))
		if err := imagesink.WriteFile(path, img, cfg.Encoder); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		if cfg.OnProgress != nil {
			cfg.OnProgress(i+1, len(jobs), path)
		}
	}
	return paths, nil
}
