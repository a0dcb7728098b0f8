package builder

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

// runLogged runs cmd with its stdout/stderr streamed line-by-line to the
// context's logger, tagged with the request uuid, mirroring helpers.py
// exec_and_log. A non-zero exit is reported as an error the install
// pipeline treats as a fatal step failure.
func runLogged(ctx *installctx.Context, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attaching stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attaching stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go streamTo(ctx, "stdout", stdout, &wg)
	go streamTo(ctx, "stderr", stderr, &wg)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return &plugin.CommandExecutionError{Command: cmd.Path, Cause: err}
	}
	return nil
}

func streamTo(ctx *installctx.Context, stream string, r io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Logger() != nil {
			ctx.Logger().Debug(ctx.Ctx(), "build output", "stream", stream, "line", scanner.Text())
		}
	}
}
