// Package app wires the capture chain: a sample source feeding an
// acquisition stage, a bounded queue of transform buffers, and an analysis
// stage running the FFT and emitting spectra to a sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fft"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/pipeline"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/sdr"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/sdr/rtl"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/spectrum"
)

// idleRelax bounds how hard the analysis stage spins on an empty queue
const idleRelax = time.Millisecond

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	source, center, bandwidth, err := createSource(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	defer source.Close()

	sink, err := createSink(config.Settings.Output)
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}
	defer sink.Close()

	engine, err := fft.New(config.Settings.FFTSize)
	if err != nil {
		return fmt.Errorf("failed to create FFT engine: %w", err)
	}

	logger.Info("starting capture",
		slog.String("source", string(config.Source.Type)),
		slog.String("center", humanize.SI(float64(center), "Hz")),
		slog.String("bandwidth", humanize.SI(float64(bandwidth), "Hz")),
		slog.Int("fftSize", engine.Size()))

	// The first hard failure decides the exit status; everything after it is
	// shutdown noise.
	var (
		once   sync.Once
		runErr error
	)
	fail := func(err error) bool {
		once.Do(func() { runErr = err })
		logger.Error(err.Error())
		return false
	}

	acquire := newAcquireStage(source, config, logger, fail)
	analyze := newAnalyzeStage(engine, sink, center, bandwidth, fail)

	pl, err := pipeline.New(config.Settings.QueueCapacity,
		[]pipeline.StageFunc[[]fixpoint.Complex]{acquire, analyze},
		pipeline.WithLogger[[]fixpoint.Complex](logger))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if err = pl.Start(); err != nil {
		return err
	}

	// Scope the watcher to this run so it unblocks once Join returns
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		pl.Stop()
	}()

	pl.Join()
	return runErr
}

// newAcquireStage builds the producer stage: read one raw block, convert it
// to Q15 samples and fan it out as transform-sized buffers.
func newAcquireStage(source sdr.Source, config *Config, logger *slog.Logger, fail func(error) bool) pipeline.StageFunc[[]fixpoint.Complex] {
	fftSize := config.Settings.FFTSize
	raw := make([]byte, fftSize*2*config.Settings.BlocksPerRead)
	settleLeft := config.Settings.SettleReads
	drained := false

	return func(_, out *pipeline.Queue[[]fixpoint.Complex]) bool {
		if drained {
			// Nothing left to produce; idle until the analysis stage has
			// drained the queue and stopped the pipeline.
			return true
		}

		n, err := source.ReadBlock(raw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Graceful end of input: close the queue so the analysis
				// stage drains the remaining buffers and observes Closed,
				// rather than tearing the pipeline down under them.
				logger.Info("source drained")
				out.Close()
				drained = true
				return true
			}
			return fail(fmt.Errorf("reading samples: %w", err))
		}
		if n < len(raw) {
			logger.Warn("short read, skipping block", slog.Int("got", n), slog.Int("want", len(raw)))
			return true
		}
		if settleLeft > 0 {
			settleLeft--
			return true
		}

		samples := make([]fixpoint.Complex, len(raw)/2)
		sdr.ConvertIQ(samples, raw)

		for off := 0; off < len(samples); off += fftSize {
			switch out.Write(samples[off : off+fftSize]) {
			case pipeline.WriteAccepted:
			case pipeline.WriteFull:
				// The analysis stage is behind; shed this buffer and keep
				// the rest of the block.
				logger.Warn("analysis queue full, dropping buffer")
			case pipeline.WriteClosed:
				return false
			}
		}
		return true
	}
}

// newAnalyzeStage builds the consumer stage: remove the DC offset, transform
// in place and hand the spectrum to the sink.
func newAnalyzeStage(engine *fft.Engine[fixpoint.Complex], sink spectrum.Sink, center, bandwidth int64, fail func(error) bool) pipeline.StageFunc[[]fixpoint.Complex] {
	return func(in, _ *pipeline.Queue[[]fixpoint.Complex]) bool {
		buf, status := in.Read()
		switch status {
		case pipeline.ReadEmpty:
			time.Sleep(idleRelax)
			return true
		case pipeline.ReadClosed:
			return false
		}

		fixpoint.RemoveDC(buf)
		if err := engine.Transform(buf); err != nil {
			return fail(fmt.Errorf("transforming buffer: %w", err))
		}

		frame := spectrum.Spectrum{
			Timestamp:       time.Now().UTC(),
			CenterFrequency: center,
			Bandwidth:       bandwidth,
			Bins:            buf,
		}
		if err := sink.Write(&frame); err != nil {
			return fail(fmt.Errorf("writing spectrum: %w", err))
		}
		return true
	}
}

func createSource(ctx context.Context, config *Config, logger *slog.Logger) (sdr.Source, int64, int64, error) {
	switch config.Source.Type {
	case SourceRTLSDR:
		handler, err := rtl.New(config.Source.RTL)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("creating RTL-SDR source: %w", err)
		}

		source := sdr.NewCommandSource(handler, sdr.WithLogger(logger))
		if err = source.Start(ctx); err != nil {
			return nil, 0, 0, fmt.Errorf("starting RTL-SDR source: %w", err)
		}
		return source, config.Source.RTL.Frequency, config.Source.RTL.SampleRate, nil

	case SourceFile:
		source, err := sdr.NewFileSource(config.Source.File.Path)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("creating file source: %w", err)
		}
		return source, config.Source.File.Frequency, config.Source.File.SampleRate, nil

	default:
		return nil, 0, 0, fmt.Errorf("unknown source type '%s'", config.Source.Type)
	}
}

func createSink(output string) (spectrum.Sink, error) {
	if output == "" || output == "-" {
		// Keep stdout out of the sink's ownership so closing the sink does
		// not close the process's stdout.
		return spectrum.NewTextSink(struct{ io.Writer }{os.Stdout}), nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return spectrum.NewTextSink(f), nil
}
