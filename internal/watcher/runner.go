package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// runner manages the lifecycle of the watched command.
type runner interface {
	Start() error
	Restart()
	Stop()
}

// processRunner runs the command as a child in its own process group, so
// descendants spawned by wrappers like `go run` terminate together with it.
type processRunner struct {
	command     []string
	killTimeout time.Duration
	logger      *zap.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan error
}

func newProcessRunner(command string, killTimeout time.Duration, logger *zap.Logger) (*processRunner, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("command cannot be empty")
	}
	if killTimeout <= 0 {
		killTimeout = defaultKillTimeout
	}

	return &processRunner{
		command:     argv,
		killTimeout: killTimeout,
		logger:      logger,
	}, nil
}

func (r *processRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked()
}

func (r *processRunner) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	if err := r.startLocked(); err != nil {
		r.logger.Error("restart failed", zap.Error(err))
	}
}

func (r *processRunner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *processRunner) startLocked() error {
	cmd := exec.Command(r.command[0], r.command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.command[0], err)
	}

	r.logger.Info("command started",
		zap.String("command", strings.Join(r.command, " ")),
		zap.Int("pid", cmd.Process.Pid),
	)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	r.cmd = cmd
	r.done = done
	return nil
}

func (r *processRunner) stopLocked() {
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}

	pid := r.cmd.Process.Pid
	// Negative pid addresses the whole process group.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		// The process may have exited on its own already.
		r.logger.Debug("terminate failed", zap.Error(err))
	}

	select {
	case err := <-r.done:
		logExit(r.logger, err)
	case <-time.After(r.killTimeout):
		r.logger.Warn("command did not exit in time, killing", zap.Int("pid", pid))
		_ = syscall.Kill(-pid, syscall.SIGKILL)
		logExit(r.logger, <-r.done)
	}

	r.cmd = nil
	r.done = nil
}

func logExit(logger *zap.Logger, err error) {
	if err != nil {
		logger.Debug("command exited", zap.Error(err))
	}
}
