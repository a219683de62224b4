package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/mirror"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clipbridge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBindViperPrecedence(t *testing.T) {
	t.Setenv("CLIPBRIDGE_CHECK_INTERVAL", "5ms")
	t.Setenv("CLIPBRIDGE_XCLIP", "/env/xclip")

	path := writeConfig(t, `
pass-interval = "1s"
check-interval = "9ms"
xclip = "/cfg/xclip"
wl-paste = "/cfg/wl-paste"
`)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--xclip", "/flag/xclip"}))

	v := viper.New()
	require.NoError(t, bindViper(cmd, v))

	assert.Equal(t, time.Second, v.GetDuration("pass-interval"), "config file over default")
	assert.Equal(t, 5*time.Millisecond, v.GetDuration("check-interval"), "env over config file")
	assert.Equal(t, "/flag/xclip", v.GetString("xclip"), "flag over env")
	assert.Equal(t, "/cfg/wl-paste", v.GetString("wl-paste"))
	assert.Equal(t, mirror.DefaultSettleInterval, v.GetDuration("settle-interval"))
	assert.False(t, v.GetBool("skip-absent"), "every candidate is probed by default")

	opts := discoveryOptions(v)
	assert.Equal(t, "/flag/xclip", opts.Xclip)
	assert.Equal(t, "wl-copy", opts.WLCopy)
	assert.Equal(t, clip.ExecRunner{Timeout: clip.DefaultCommandTimeout}, opts.Runner)
	assert.False(t, opts.SkipAbsent)
	assert.Len(t, syncOptions(v), 3)
}

func TestBindViperBadConfig(t *testing.T) {
	path := writeConfig(t, "pass-interval = [")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	err := bindViper(cmd, viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "clipbridge dev\n", out.String())
}

func TestRootCmdSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "probe")
	assert.Contains(t, names, "version")

	// Tool and logging flags reach subcommands.
	probe, _, err := root.Find([]string{"probe"})
	require.NoError(t, err)
	require.NoError(t, probe.ParseFlags([]string{"--xclip", "/x", "--log-format", "json"}))
	got, err := probe.Flags().GetString("xclip")
	require.NoError(t, err)
	assert.Equal(t, "/x", got)
}
