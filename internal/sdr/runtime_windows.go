//go:build windows

package sdr

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FindRuntime locates the tuner binary on the PATH, falling back to the
// directory of the executable.
func FindRuntime(runtime string) (string, error) {
	if binPath, err := exec.LookPath(runtime); err == nil {
		return binPath, nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	binPath := filepath.Join(filepath.Dir(exePath), fmt.Sprintf("%s.exe", runtime))
	if _, err = os.Stat(binPath); err != nil {
		return "", fmt.Errorf("failed to find binary '%s'", runtime)
	}

	return binPath, nil
}
