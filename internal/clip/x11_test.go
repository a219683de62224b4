package clip_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/clip/mocks"
)

func expectTargets(r *mocks.MockRunner, env any) *gomock.Call {
	return r.EXPECT().Output(gomock.Any(), env, "xclip", "-selection", "clipboard", "-o", "-t", "TARGETS")
}

func TestX11Get(t *testing.T) {
	t.Parallel()

	t.Run("utf8 target labelled as text", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		expectTargets(r, gomock.Nil()).Return([]byte("TARGETS\nTIMESTAMP\nUTF8_STRING\nSTRING\n"), nil)
		r.EXPECT().Output(gomock.Any(), gomock.Nil(), "xclip", "-selection", "clipboard", "-o", "-t", "UTF8_STRING").
			Return([]byte("hello"), nil)

		got, err := clip.NewX11(r, clip.Session{}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, clip.Contents{Data: []byte("hello"), MIMEType: "text/plain;charset=utf-8"}, got)
	})

	t.Run("no owner is empty", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		expectTargets(r, gomock.Nil()).Return(nil,
			&clip.CommandError{Tool: "xclip", ExitCode: 1, Stderr: "Error: target TARGETS not available"})

		got, err := clip.NewX11(r, clip.Session{}).Get(context.Background())
		require.NoError(t, err)
		assert.True(t, got.Empty())
	})

	t.Run("only unsupported targets", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		expectTargets(r, gomock.Nil()).Return([]byte("TARGETS\nTIMESTAMP\nSAVE_TARGETS\n"), nil)

		got, err := clip.NewX11(r, clip.Session{}).Get(context.Background())
		require.NoError(t, err)
		assert.True(t, got.Empty())
	})

	t.Run("display unreachable", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		env := []string{"DISPLAY=:7"}
		expectTargets(r, env).Return(nil, &clip.CommandError{Tool: "xclip", ExitCode: 1, Stderr: "Error: Can't open display: :7"})

		_, err := clip.NewX11(r, clip.Session{Value: ":7"}).Get(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x11 get")
	})
}

func TestX11Set(t *testing.T) {
	t.Parallel()

	t.Run("text uses default targets", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		r.EXPECT().Feed(gomock.Any(), gomock.Nil(), []byte("hello"), "/opt/xclip", "-selection", "clipboard", "-i").
			Return(nil)

		x := clip.NewX11(r, clip.Session{}).WithTool("/opt/xclip")
		assert.Equal(t, "X11", x.Name())
		require.NoError(t, x.Set(context.Background(), clip.Text("hello")))
	})

	t.Run("image passes its target", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		r := mocks.NewMockRunner(ctrl)

		r.EXPECT().Feed(gomock.Any(), []string{"DISPLAY=:1"}, []byte("png"), "xclip",
			"-selection", "clipboard", "-i", "-t", "image/png").Return(nil)

		c := clip.Contents{Data: []byte("png"), MIMEType: "image/png"}
		require.NoError(t, clip.NewX11(r, clip.Session{Value: ":1"}).Set(context.Background(), c))
	})
}

func TestX11BusyHandle(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	r := mocks.NewMockRunner(ctrl)

	started := make(chan struct{})
	unblock := make(chan struct{})
	expectTargets(r, gomock.Nil()).DoAndReturn(
		func(_ context.Context, _ []string, _ string, _ ...string) ([]byte, error) {
			close(started)
			<-unblock
			return []byte("TARGETS\n"), nil
		})

	x := clip.NewX11(r, clip.Session{})
	done := make(chan error, 1)
	go func() {
		_, err := x.Get(context.Background())
		done <- err
	}()

	<-started
	_, err := x.Get(context.Background())
	require.ErrorIs(t, err, clip.ErrBusy)
	require.ErrorIs(t, x.Set(context.Background(), clip.Text("x")), clip.ErrBusy)

	close(unblock)
	require.NoError(t, <-done)
}
