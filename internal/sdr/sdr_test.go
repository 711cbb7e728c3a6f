package sdr

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/lukasz-wiecaszek/rtl-sdr-fft/internal/fixpoint"
)

func TestConvertIQ(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []fixpoint.Complex
	}{
		{
			"midpoint maps near zero",
			[]byte{127, 127},
			[]fixpoint.Complex{{Re: 0, Im: 0}},
		},
		{
			"extremes",
			[]byte{0, 255},
			[]fixpoint.Complex{{Re: -127 * 256, Im: 128 * 256}},
		},
		{
			"two samples",
			[]byte{127, 128, 126, 129},
			[]fixpoint.Complex{{Re: 0, Im: 256}, {Re: -256, Im: 512}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]fixpoint.Complex, len(tt.src)/2)
			ConvertIQ(dst, tt.src)

			for i, want := range tt.want {
				if dst[i] != want {
					t.Errorf("sample %d: expected %+v, got %+v", i, want, dst[i])
				}
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.iq")

	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	block := make([]byte, 4)

	// Two full blocks
	for i := 0; i < 2; i++ {
		n, err := src.ReadBlock(block)
		if err != nil || n != len(block) {
			t.Fatalf("block %d: expected full read, got n=%d err=%v", i, n, err)
		}
	}

	// The trailing partial block reports end of recording
	if _, err = src.ReadBlock(block); err != io.EOF {
		t.Errorf("expected io.EOF on partial trailing block, got %v", err)
	}

	// Exhausted source keeps reporting EOF
	if _, err = src.ReadBlock(block); err != io.EOF {
		t.Errorf("expected io.EOF on exhausted source, got %v", err)
	}
}

func TestFileSource_Missing(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "nope.iq")); err == nil {
		t.Error("expected error for missing file")
	}
}
