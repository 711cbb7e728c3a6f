package sdr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrAlreadyStarted is returned when Start is called on a running source
var ErrAlreadyStarted = errors.New("source is already started")

// WithLogger sets the logger for the command source
func WithLogger(logger *slog.Logger) func(s *CommandSource) {
	return func(s *CommandSource) {
		s.logger = logger.With(slog.String("device", s.handler.Device()))
	}
}

// CommandSource runs a tuner process and serves its stdout as raw sample
// blocks. The process's stderr is drained on a separate goroutine and
// forwarded to the logger, since tuner tools report their device chatter
// there.
type CommandSource struct {
	handler Handler
	logger  *slog.Logger

	started atomic.Bool
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewCommandSource creates a source for the given handler with a discard logger
func NewCommandSource(h Handler, options ...func(s *CommandSource)) *CommandSource {
	s := CommandSource{
		handler: h,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Start launches the tuner process. The context cancels the process; Close
// must still be called to reap it.
func (s *CommandSource) Start(ctx context.Context) error {
	if s.started.Load() {
		return ErrAlreadyStarted
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.cmd = s.handler.Cmd(ctx)

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		s.cancel()
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	stderr, err := s.cmd.StderrPipe()
	if err != nil {
		s.cancel()
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err = s.cmd.Start(); err != nil {
		s.cancel()
		return fmt.Errorf("starting %s: %w", s.handler.Device(), err)
	}

	s.stdout = stdout
	s.started.Store(true)

	s.wg.Add(1)
	go s.handleStderr(stderr)

	s.logger.Info("tuner process started")
	return nil
}

// ReadBlock fills p from the tuner's stdout. A short count with a nil error
// is a transient condition; any error is a hard source failure.
func (s *CommandSource) ReadBlock(p []byte) (int, error) {
	if !s.started.Load() {
		return 0, fmt.Errorf("source is not started")
	}

	n, err := io.ReadFull(s.stdout, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil // partial block, caller decides to skip this iteration
	}
	return n, err
}

// Close terminates the tuner process and waits for it to exit. The kill
// triggered by cancellation is the expected exit path, not a failure.
func (s *CommandSource) Close() error {
	if !s.started.Load() {
		return nil
	}

	s.cancel()
	if err := s.cmd.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug(fmt.Sprintf("tuner process exited: %s", err))
	}
	s.wg.Wait()
	s.started.Store(false)

	s.logger.Info("tuner process stopped")
	return nil
}

func (s *CommandSource) handleStderr(stderr io.Reader) {
	defer s.wg.Done()

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s.logger.Info(fmt.Sprintf("%s >> %s", s.handler.Device(), line))
	}
}
