package recorder

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/graphics/graphicstest"
)

func capturingRunner(buf *bytes.Buffer) Runner {
	return func(input io.Reader, opts Options) error {
		_, err := io.Copy(buf, input)
		return err
	}
}

func TestRecorderWritesRawFrames(t *testing.T) {
	var buf bytes.Buffer
	r := New(Options{OutputFile: "out.mp4", Width: 4, Height: 2, QueueSize: 8}, WithRunner(capturingRunner(&buf)))
	gl := graphicstest.NewGL()
	gl.Pixels = bytes.Repeat([]byte{0xab}, 4*2*4)

	require.NoError(t, r.Start())
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Capture(gl, 4, 2))
	}
	require.NoError(t, r.Close())

	assert.Equal(t, 3*4*2*4, buf.Len())
	assert.Equal(t, int64(3), r.Written())
	assert.Equal(t, int64(0), r.Dropped())
	assert.Equal(t, byte(0xab), buf.Bytes()[0])
	assert.Equal(t, 3, gl.Called("ReadPixels 4x2"))
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	var buf bytes.Buffer
	runner := func(input io.Reader, opts Options) error {
		<-release
		_, err := io.Copy(&buf, input)
		return err
	}
	r := New(Options{Width: 1, Height: 1, QueueSize: 1}, WithRunner(runner))
	gl := graphicstest.NewGL()
	require.NoError(t, r.Start())

	for i := 0; i < 10; i++ {
		require.NoError(t, r.Capture(gl, 1, 1))
	}
	close(release)
	require.NoError(t, r.Close())

	assert.Positive(t, r.Dropped())
	assert.Equal(t, int64(10), r.Written()+r.Dropped())
	assert.Equal(t, int(r.Written())*4, buf.Len())
}

func TestRecorderEncoderFailure(t *testing.T) {
	boom := errors.New("ffmpeg exited")
	runner := func(input io.Reader, opts Options) error { return boom }
	r := New(Options{Width: 2, Height: 2, QueueSize: 4}, WithRunner(runner))
	gl := graphicstest.NewGL()
	require.NoError(t, r.Start())

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Capture(gl, 2, 2))
	}
	assert.ErrorIs(t, r.Close(), boom)
}

func TestRecorderCaptureErrors(t *testing.T) {
	r := New(Options{Width: 2, Height: 2}, WithRunner(capturingRunner(&bytes.Buffer{})))
	gl := graphicstest.NewGL()

	assert.ErrorIs(t, r.Capture(gl, 2, 2), ErrNotStarted)
	assert.ErrorIs(t, r.Close(), ErrNotStarted)

	require.NoError(t, r.Start())
	assert.ErrorIs(t, r.Start(), ErrAlreadyStarted)
	assert.ErrorIs(t, r.Capture(gl, 3, 2), ErrFrameSize)
	require.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.ErrorIs(t, r.Capture(gl, 2, 2), ErrNotStarted)
}

func TestEncoderArgs(t *testing.T) {
	opts := New(Options{OutputFile: "a.mp4", Width: 640, Height: 360}).opts
	in := inputArgs(opts)
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "640x360", in["s"])
	assert.Equal(t, 60, in["framerate"])

	out := outputArgs(opts, "linux")
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])
	assert.NotContains(t, out, "tag:v")

	opts.Codec = "hevc"
	opts.HWAccel = true
	out = outputArgs(opts, "linux")
	assert.Equal(t, "hevc_nvenc", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	out = outputArgs(opts, "darwin")
	assert.Equal(t, "hevc_videotoolbox", out["c:v"])

	out = outputArgs(opts, "windows")
	assert.Equal(t, "libx265", out["c:v"])
}
