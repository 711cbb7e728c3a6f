package rtl

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"minimal valid", Config{Frequency: 100_000_000, SampleRate: 2_048_000}, false},
		{"full valid", Config{Frequency: 433_920_000, SampleRate: 2_400_000, DeviceIndex: 1, Gain: 496, PPMError: -2, BiasTee: true}, false},
		{"frequency too low", Config{Frequency: 1_000_000, SampleRate: 2_048_000}, true},
		{"frequency too high", Config{Frequency: 2_000_000_000, SampleRate: 2_048_000}, true},
		{"sample rate too low", Config{Frequency: 100_000_000, SampleRate: 100_000}, true},
		{"sample rate too high", Config{Frequency: 100_000_000, SampleRate: 4_000_000}, true},
		{"negative device index", Config{Frequency: 100_000_000, SampleRate: 2_048_000, DeviceIndex: -1}, true},
		{"negative gain", Config{Frequency: 100_000_000, SampleRate: 2_048_000, Gain: -10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Args(t *testing.T) {
	config := Config{
		Frequency:  100_000_000,
		SampleRate: 2_048_000,
		Gain:       280,
		PPMError:   -1,
	}

	args, err := config.Args()
	if err != nil {
		t.Fatalf("failed to build args: %v", err)
	}

	got := strings.Join(args, " ")
	want := "-f 100000000 -s 2048000 -d 0 -g 280 -p -1 -"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfig_ArgsOmitsDefaults(t *testing.T) {
	config := Config{Frequency: 100_000_000, SampleRate: 2_048_000}

	args, err := config.Args()
	if err != nil {
		t.Fatalf("failed to build args: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, flag := range []string{"-g", "-p", "-D", "-T"} {
		if strings.Contains(joined, flag+" ") || strings.HasSuffix(joined, flag) {
			t.Errorf("args %q should not contain %s", joined, flag)
		}
	}

	if args[len(args)-1] != "-" {
		t.Errorf("last arg must be '-', got %q", args[len(args)-1])
	}
}
