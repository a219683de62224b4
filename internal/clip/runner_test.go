package clip_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipbridge/internal/clip"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerOutput(t *testing.T) {
	t.Parallel()
	requireShell(t)

	r := clip.ExecRunner{}
	out, err := r.Output(context.Background(), []string{"CLIPBRIDGE_TEST_SESSION=wayland-9"},
		"sh", "-c", `printf %s "$CLIPBRIDGE_TEST_SESSION"`)
	require.NoError(t, err)
	assert.Equal(t, "wayland-9", string(out))
}

func TestExecRunnerCommandError(t *testing.T) {
	t.Parallel()
	requireShell(t)

	_, err := clip.ExecRunner{}.Output(context.Background(), nil, "sh", "-c", "echo 'Nothing is copied' >&2; exit 3")
	var ce *clip.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "sh", ce.Tool)
	assert.Equal(t, 3, ce.ExitCode)
	assert.Equal(t, "Nothing is copied", ce.Stderr)
}

func TestExecRunnerToolMissing(t *testing.T) {
	t.Parallel()

	_, err := clip.ExecRunner{}.Output(context.Background(), nil, "clipbridge-no-such-tool")
	require.ErrorIs(t, err, clip.ErrToolMissing)

	err = clip.ExecRunner{}.Feed(context.Background(), nil, []byte("x"), "clipbridge-no-such-tool")
	require.ErrorIs(t, err, clip.ErrToolMissing)
}

func TestExecRunnerTimeout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	r := clip.ExecRunner{Timeout: 50 * time.Millisecond}
	_, err := r.Output(context.Background(), nil, "sh", "-c", "sleep 5")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunnerFeed(t *testing.T) {
	t.Parallel()
	requireShell(t)

	r := clip.ExecRunner{}
	require.NoError(t, r.Feed(context.Background(), nil, []byte("hello"), "sh", "-c", `test "$(cat)" = hello`))

	err := r.Feed(context.Background(), nil, []byte("other"), "sh", "-c", `test "$(cat)" = hello`)
	var ce *clip.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.ExitCode)
}

func TestExecRunnerFeedLeavesOwnerRunning(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	fed := filepath.Join(dir, "fed")
	alive := filepath.Join(dir, "alive")

	// Like wl-copy and xclip: read stdin, then leave a background owner behind.
	start := time.Now()
	err := clip.ExecRunner{}.Feed(context.Background(), nil, []byte("hello"),
		"sh", "-c", `cat >"$1"; (sleep 1; echo alive >"$2") &`, "sh", fed, alive)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond, "Feed waited for the owner")

	data, err := os.ReadFile(fed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(alive)
		return err == nil && string(data) == "alive\n"
	}, 5*time.Second, 50*time.Millisecond)
}
