package clip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks -source=runner.go Runner

// DefaultCommandTimeout bounds a single tool invocation.
const DefaultCommandTimeout = 2 * time.Second

// Runner runs the external clipboard tools. env entries are appended to the
// process environment of the child only.
type Runner interface {
	// Output runs name and returns its stdout, read to EOF.
	Output(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

	// Feed runs name with stdin as its standard input. The tool may fork a
	// background owner that outlives the call; its output is not captured
	// so that the call does not wait on that child.
	Feed(ctx context.Context, env []string, stdin []byte, name string, args ...string) error
}

// CommandError is a clipboard tool that exited non-zero.
type CommandError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit status %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// stderrContains reports whether err is a CommandError whose stderr mentions
// any of the given fragments (case-insensitive).
func stderrContains(err error, fragments ...string) bool {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return false
	}
	msg := strings.ToLower(ce.Stderr)
	for _, f := range fragments {
		if strings.Contains(msg, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Timeout applies to every call. Zero means DefaultCommandTimeout.
	Timeout time.Duration
}

func (r ExecRunner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultCommandTimeout
	}
	return r.Timeout
}

func (r ExecRunner) command(ctx context.Context, env []string, name string, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(env) > 0 {
		// Later duplicates win, so the session override shadows the inherited value.
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.WaitDelay = time.Second
	return cmd
}

func (r ExecRunner) Output(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, env, name, args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, wrapRunErr(ctx, name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (r ExecRunner) Feed(ctx context.Context, env []string, stdin []byte, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := r.command(ctx, env, name, args)
	cmd.Stdin = bytes.NewReader(stdin)

	if err := cmd.Run(); err != nil {
		return wrapRunErr(ctx, name, err, "")
	}
	return nil
}

func wrapRunErr(ctx context.Context, name string, err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w", name, ErrToolMissing)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", name, ctxErr)
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &CommandError{
			Tool:     name,
			ExitCode: ee.ExitCode(),
			Stderr:   strings.TrimSpace(stderr),
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
