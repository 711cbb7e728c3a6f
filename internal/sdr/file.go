package sdr

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// FileSource replays raw interleaved u8 I/Q samples from a capture file.
// It satisfies the same block contract as a live tuner: end of file is a
// hard failure, which cleanly stops the pipeline once the recording is
// exhausted.
type FileSource struct {
	f *os.File
}

// NewFileSource opens an I/Q capture file for replay
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening IQ file: %w", err)
	}
	return &FileSource{f: f}, nil
}

// ReadBlock fills p from the capture file
func (s *FileSource) ReadBlock(p []byte) (int, error) {
	n, err := io.ReadFull(s.f, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		// The trailing partial block is not worth a transform; report the
		// end of the recording instead.
		return n, io.EOF
	}
	return n, err
}

// Close closes the capture file
func (s *FileSource) Close() error {
	return s.f.Close()
}
