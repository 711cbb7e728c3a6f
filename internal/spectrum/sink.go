package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// Sink consumes FFT frames. Write may be called from a pipeline stage
// goroutine; implementations need not be safe for concurrent use.
type Sink interface {
	Write(s *Spectrum) error
	Close() error
}

// TextSink writes frames as plain text: one header line per frame followed
// by one tab-separated row per bin (index, frequency in Hz, raw Q15 real
// and imaginary parts, squared magnitude). The format is line-oriented so
// the output can be tailed, grepped or fed straight to gnuplot.
type TextSink struct {
	w *bufio.Writer
	c io.Closer
}

// NewTextSink wraps w in a buffered text sink. If w is also an io.Closer
// it is closed when the sink is closed.
func NewTextSink(w io.Writer) *TextSink {
	s := &TextSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.c = c
	}
	return s
}

func (s *TextSink) Write(sp *Spectrum) error {
	_, err := fmt.Fprintf(s.w, "# time=%s center=%d bandwidth=%d n=%d\n",
		sp.Timestamp.UTC().Format(time.RFC3339Nano), sp.CenterFrequency, sp.Bandwidth, len(sp.Bins))
	if err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}

	for i, bin := range sp.Bins {
		norm := (int64(bin.Re)*int64(bin.Re) + int64(bin.Im)*int64(bin.Im)) >> 15
		_, err = fmt.Fprintf(s.w, "%d\t%d\t%d\t%d\t%d\n", i, sp.BinFrequency(i), bin.Re, bin.Im, norm)
		if err != nil {
			return fmt.Errorf("writing bin %d: %w", i, err)
		}
	}
	return nil
}

// Close flushes buffered output and closes the underlying writer when it
// owns one.
func (s *TextSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flushing sink: %w", err)
	}
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
