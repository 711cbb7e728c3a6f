package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/spectrum"
)

// TestRun_FileSource drives the whole capture chain off a recorded I/Q file:
// the run must terminate on its own once the recording is drained and the
// output must hold one frame per transform buffer.
func TestRun_FileSource(t *testing.T) {
	const (
		fftSize       = 8
		blocksPerRead = 2
		reads         = 2
	)

	dir := t.TempDir()
	capture := filepath.Join(dir, "capture.iq")
	output := filepath.Join(dir, "spectra.txt")

	// Two full reads worth of samples plus a trailing partial block, which
	// must be discarded rather than transformed.
	data := make([]byte, fftSize*2*blocksPerRead*reads+3)
	for i := range data {
		data[i] = byte(127 + (i%16)&7)
	}
	if err := os.WriteFile(capture, data, 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}

	config := &Config{
		Settings: Settings{
			LogLevel:      "error",
			FFTSize:       fftSize,
			BlocksPerRead: blocksPerRead,
			SettleReads:   0,
			QueueCapacity: 4,
			Output:        output,
		},
		Source: SourceConfig{
			Type: SourceFile,
			File: FileConfig{Path: capture, Frequency: 100_000_000, SampleRate: 2_048_000},
		},
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("config must be valid: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Run(context.Background(), config, logger); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	frames, err := spectrum.ReadFrames(f)
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if want := blocksPerRead * reads; len(frames) != want {
		t.Fatalf("expected %d frames, got %d", want, len(frames))
	}
	for i, frame := range frames {
		if len(frame.Bins) != fftSize {
			t.Errorf("frame %d: expected %d bins, got %d", i, fftSize, len(frame.Bins))
		}
		if frame.CenterFrequency != 100_000_000 {
			t.Errorf("frame %d: expected center 100000000, got %d", i, frame.CenterFrequency)
		}
		if frame.Bandwidth != 2_048_000 {
			t.Errorf("frame %d: expected bandwidth 2048000, got %d", i, frame.Bandwidth)
		}
	}
}

// TestRun_SettleReads verifies that the configured number of initial reads
// is discarded before any spectrum is emitted.
func TestRun_SettleReads(t *testing.T) {
	const (
		fftSize       = 8
		blocksPerRead = 1
	)

	dir := t.TempDir()
	capture := filepath.Join(dir, "capture.iq")
	output := filepath.Join(dir, "spectra.txt")

	// Three full reads; the first two are settle reads.
	data := make([]byte, fftSize*2*blocksPerRead*3)
	for i := range data {
		data[i] = byte(120 + i%16)
	}
	if err := os.WriteFile(capture, data, 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}

	config := &Config{
		Settings: Settings{
			LogLevel:      "error",
			FFTSize:       fftSize,
			BlocksPerRead: blocksPerRead,
			SettleReads:   2,
			QueueCapacity: 4,
			Output:        output,
		},
		Source: SourceConfig{
			Type: SourceFile,
			File: FileConfig{Path: capture},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := Run(context.Background(), config, logger); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	frames, err := spectrum.ReadFrames(f)
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after settle reads, got %d", len(frames))
	}
}
