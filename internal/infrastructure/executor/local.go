package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// LocalExecutor runs commands on the host shell with the terminal attached.
type LocalExecutor struct {
	shell  string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewLocalExecutor builds a new executor, shell defaults to sh.
func NewLocalExecutor(shell string, stdin io.Reader, stdout, stderr io.Writer) *LocalExecutor {
	if shell == "" {
		shell = "sh"
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &LocalExecutor{shell: shell, stdin: stdin, stdout: stdout, stderr: stderr}
}

// Execute implements ports.CommandExecutor. A non-zero exit is reported in
// the result, not as an error.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	name, args := shellInvocation(e.shell, command)
	c := exec.CommandContext(ctx, name, args...)
	c.Stdin = e.stdin
	c.Stdout = e.stdout
	c.Stderr = e.stderr

	start := time.Now()
	err := c.Run()
	result := domain.ExecutionResult{Duration: time.Since(start)}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

func shellInvocation(shell, command string) (string, []string) {
	switch shell {
	case "powershell", "pwsh":
		return shell, []string{"-NoProfile", "-Command", command}
	case "cmd":
		return shell, []string{"/C", command}
	default:
		return shell, []string{"-c", command}
	}
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
