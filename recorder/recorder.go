// Package recorder captures rendered frames and encodes them to a video file
// with an external ffmpeg process fed raw RGBA over a pipe.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync/atomic"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/richinsley/glframework/graphics"
)

var (
	ErrNotStarted     = errors.New("recorder not started")
	ErrAlreadyStarted = errors.New("recorder already started")
	ErrFrameSize      = errors.New("frame size does not match recorder")
)

const defaultQueueSize = 3

type Options struct {
	OutputFile string
	Width      int
	Height     int
	FPS        int
	// Codec is "h264" or "hevc".
	Codec      string
	FFMPEGPath string
	// HWAccel selects the platform hardware encoder.
	HWAccel   bool
	QueueSize int
}

// Runner runs an encoder that reads raw frames from input until EOF.
type Runner func(input io.Reader, opts Options) error

type Option func(*Recorder)

// WithRunner replaces the ffmpeg process with fn.
func WithRunner(fn Runner) Option {
	return func(r *Recorder) { r.runner = fn }
}

type Recorder struct {
	opts   Options
	runner Runner

	frameChan chan []byte
	doneChan  chan error
	started   bool
	closed    bool

	written atomic.Int64
	dropped atomic.Int64
}

func New(opts Options, o ...Option) *Recorder {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Codec == "" {
		opts.Codec = "h264"
	}
	r := &Recorder{opts: opts, runner: runFFmpeg}
	for _, fn := range o {
		fn(r)
	}
	return r
}

func inputArgs(opts Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}
}

func outputArgs(opts Options, goos string) ffmpeg.KwArgs {
	// GL rows run bottom to top.
	out := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	hevc := opts.Codec == "hevc"
	switch {
	case opts.HWAccel && goos == "linux":
		log.Println("Using Linux (NVENC) hardware acceleration.")
		out["preset"] = "p2"
		if hevc {
			out["c:v"] = "hevc_nvenc"
		} else {
			out["c:v"] = "h264_nvenc"
		}
	case opts.HWAccel && goos == "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if hevc {
			out["c:v"] = "hevc_videotoolbox"
		} else {
			out["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			out["c:v"] = "libx265"
		} else {
			out["c:v"] = "libx264"
		}
	}
	if hevc && strings.HasSuffix(opts.OutputFile, ".mp4") {
		out["tag:v"] = "hvc1"
	}
	return out
}

func runFFmpeg(input io.Reader, opts Options) error {
	cmd := ffmpeg.Input("pipe:", inputArgs(opts)).
		Output(opts.OutputFile, outputArgs(opts, runtime.GOOS)).
		OverWriteOutput().WithInput(input).ErrorToStdOut()
	if opts.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFMPEGPath)
	}
	return cmd.Run()
}

// Start launches the encoder. Frames passed to Capture are written to it in
// order from a background goroutine.
func (r *Recorder) Start() error {
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true
	r.frameChan = make(chan []byte, r.opts.QueueSize)
	r.doneChan = make(chan error, 1)

	pipeReader, pipeWriter := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := r.runner(pipeReader, r.opts)
		// unblock the writer if the encoder exits early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go r.runEncoder(pipeWriter, errc)
	log.Printf("Recording %dx%d at %d fps to %s", r.opts.Width, r.opts.Height, r.opts.FPS, r.opts.OutputFile)
	return nil
}

// runEncoder is the consumer. It drains frameChan into the pipe.
func (r *Recorder) runEncoder(w *io.PipeWriter, errc <-chan error) {
	failed := false
	for frame := range r.frameChan {
		if failed {
			continue
		}
		if _, err := w.Write(frame); err != nil {
			log.Printf("Error writing frame %d to pipe: %v", r.written.Load(), err)
			failed = true
			continue
		}
		r.written.Add(1)
	}
	w.Close()
	r.doneChan <- <-errc
}

// Capture reads the current framebuffer and queues it. When the queue is
// full the frame is dropped.
func (r *Recorder) Capture(gl graphics.GL, width, height int) error {
	if !r.started || r.closed {
		return ErrNotStarted
	}
	if width != r.opts.Width || height != r.opts.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, width, height, r.opts.Width, r.opts.Height)
	}
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), graphics.RGBA, graphics.UNSIGNED_BYTE, pixels)

	select {
	case r.frameChan <- pixels:
	default:
		r.dropped.Add(1)
		log.Println("Warning: Frame channel is full. Dropping frame.")
	}
	return nil
}

// Close flushes queued frames and waits for the encoder to exit.
func (r *Recorder) Close() error {
	if !r.started {
		return ErrNotStarted
	}
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.frameChan)
	err := <-r.doneChan
	log.Printf("Recording finished: %d frames written, %d dropped", r.written.Load(), r.dropped.Load())
	return err
}

// Written counts frames delivered to the encoder.
func (r *Recorder) Written() int64 { return r.written.Load() }

// Dropped counts frames discarded because the queue was full.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }
