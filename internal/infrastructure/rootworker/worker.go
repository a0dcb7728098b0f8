package rootworker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Worker is the parent-side handle to the privileged child process,
// implementing ports.RootWorker. Exactly one request/response pair is in
// flight at a time, serialized by mu, mirroring the Python implementation's
// command-queue lock.
type Worker struct {
	selfPath string
	mu       sync.Mutex

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader

	logger ports.Logger
}

// New prepares a Worker that will re-exec selfPath (the daemon's own
// executable) with ChildModeFlag to become the privileged child.
func New(selfPath string, logger ports.Logger) *Worker {
	return &Worker{selfPath: selfPath, logger: logger}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cmd := exec.Command(w.selfPath, ChildModeFlag)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("attaching root worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attaching root worker stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting root worker: %w", err)
	}

	w.cmd = cmd
	w.stdin = stdin
	w.reader = bufio.NewReader(stdout)

	if w.logger != nil {
		w.logger.Info(ctx, "root worker started", "pid", cmd.Process.Pid)
	}
	return nil
}

func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil || w.cmd.Process == nil {
		return nil
	}

	if err := w.stdin.Close(); err != nil && w.logger != nil {
		w.logger.Warn(ctx, "error closing root worker stdin", "error", err)
	}

	err := w.cmd.Wait()
	if w.logger != nil {
		w.logger.Info(ctx, "root worker stopped")
	}
	if err != nil {
		return fmt.Errorf("waiting for root worker exit: %w", err)
	}
	return nil
}

func (w *Worker) Update(ctx context.Context, uuid string) (bool, error) {
	return w.sendAndWait(ctx, request{Op: opUpdate, UUID: uuid})
}

func (w *Worker) Install(ctx context.Context, uuid, artifactPath string) (bool, error) {
	return w.sendAndWait(ctx, request{Op: opInstall, UUID: uuid, Args: map[string]string{"path": artifactPath}})
}

func (w *Worker) Uninstall(ctx context.Context, uuid, packageName string) (bool, error) {
	return w.sendAndWait(ctx, request{Op: opUninstall, UUID: uuid, Args: map[string]string{"package": packageName}})
}

// sendAndWait serializes one request/response round-trip. If the child has
// died, it self-signals SIGTERM on the current process per root_worker.py's
// BaseWorker.send_cmd_and_wait ("kill the main thread").
func (w *Worker) sendAndWait(ctx context.Context, req request) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil {
		return false, fmt.Errorf("root worker not started")
	}

	line, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Errorf("encoding root worker request: %w", err)
	}
	line = append(line, '\n')

	if _, err := w.stdin.Write(line); err != nil {
		w.killSelf(ctx)
		return false, fmt.Errorf("root worker process is dead: %w", err)
	}

	raw, err := w.reader.ReadBytes('\n')
	if err != nil {
		w.killSelf(ctx)
		return false, fmt.Errorf("root worker process is dead: %w", err)
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return false, fmt.Errorf("decoding root worker response: %w", err)
	}
	if resp.Error != "" {
		return false, fmt.Errorf("root worker: %s", resp.Error)
	}
	return resp.Result, nil
}

// killSelf signals this process with SIGTERM so the daemon's own shutdown
// handler runs, mirroring root_worker.py's "kill the main thread" fallback
// when the privileged child has died underneath it.
func (w *Worker) killSelf(ctx context.Context) {
	if w.logger != nil {
		w.logger.Error(ctx, "root worker process is dead, signalling self termination")
	}
	_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
}

var _ ports.RootWorker = (*Worker)(nil)
