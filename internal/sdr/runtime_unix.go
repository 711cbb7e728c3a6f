//go:build !windows

package sdr

import "os/exec"

// FindRuntime locates the tuner binary on the PATH
func FindRuntime(runtime string) (string, error) {
	return exec.LookPath(runtime)
}
