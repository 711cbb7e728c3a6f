// Package sdr models the radio hardware as a collaborator that yields raw
// sample blocks on demand. Tuner processes are driven through their stdout
// the way rtl_sdr and friends are normally scripted, so no cgo binding to
// the vendor library is needed.
package sdr

import (
	"context"
	"os/exec"
)

// Source yields fixed-size blocks of raw interleaved unsigned 8-bit I/Q
// samples. ReadBlock fills p and returns the number of bytes read: a full
// block means success, a short count is transient (the caller logs and
// retries on its next iteration), and a non-nil error is a hard failure
// after which the source is unusable.
type Source interface {
	ReadBlock(p []byte) (int, error)
	Close() error
}

// Handler builds the tuner process a command source drives and names the
// device for logging.
type Handler interface {
	Cmd(ctx context.Context) *exec.Cmd
	Device() string
}
