package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fft"
	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"
)

// ReadFrames parses the TextSink format back into frames. It is the input
// side of the waterfall renderer, which consumes recordings produced by a
// previous capture run.
func ReadFrames(r io.Reader) ([]*Spectrum, error) {
	var (
		frames  []*Spectrum
		current *Spectrum
		line    int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "#") {
			frame, err := parseHeader(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if current != nil && len(current.Bins) != cap(current.Bins) {
				return nil, fmt.Errorf("line %d: frame truncated: %d of %d bins", line, len(current.Bins), cap(current.Bins))
			}
			frames = append(frames, frame)
			current = frame
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: bin row before frame header", line)
		}

		bin, err := parseBin(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(current.Bins) == cap(current.Bins) {
			return nil, fmt.Errorf("line %d: more bins than the frame header declared (%d)", line, cap(current.Bins))
		}
		current.Bins = append(current.Bins, bin)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading frames: %w", err)
	}

	if current != nil && len(current.Bins) != cap(current.Bins) {
		return nil, fmt.Errorf("frame truncated: %d of %d bins", len(current.Bins), cap(current.Bins))
	}
	return frames, nil
}

func parseHeader(text string) (*Spectrum, error) {
	frame := &Spectrum{}

	var n int64
	for _, field := range strings.Fields(strings.TrimPrefix(text, "#")) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("malformed header field %q", field)
		}

		var err error
		switch key {
		case "time":
			frame.Timestamp, err = time.Parse(time.RFC3339Nano, value)
		case "center":
			frame.CenterFrequency, err = strconv.ParseInt(value, 10, 64)
		case "bandwidth":
			frame.Bandwidth, err = strconv.ParseInt(value, 10, 64)
		case "n":
			n, err = strconv.ParseInt(value, 10, 64)
		default:
			return nil, fmt.Errorf("unknown header field %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing header field %q: %w", field, err)
		}
	}

	// Only transform-sized frames exist; validating before the allocation
	// also keeps a corrupt header from demanding an absurd amount of memory.
	if n < 1 || n > fft.MaxSize {
		return nil, fmt.Errorf("header declares an invalid bin count %d", n)
	}
	if err := fft.ValidateSize(int(n)); err != nil {
		return nil, fmt.Errorf("header declares an invalid bin count: %w", err)
	}
	frame.Bins = make([]fixpoint.Complex, 0, n)
	return frame, nil
}

func parseBin(text string) (fixpoint.Complex, error) {
	// index, frequency, re, im, norm; only re and im are authoritative
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return fixpoint.Complex{}, fmt.Errorf("expected 5 columns, got %d", len(fields))
	}

	re, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return fixpoint.Complex{}, fmt.Errorf("parsing real part: %w", err)
	}
	im, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil {
		return fixpoint.Complex{}, fmt.Errorf("parsing imaginary part: %w", err)
	}

	return fixpoint.NewComplex(fixpoint.Q15(re), fixpoint.Q15(im)), nil
}
