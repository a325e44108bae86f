package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/glfwcontext"
	"github.com/richinsley/glframework/headless"
	"github.com/richinsley/glframework/options"
	"github.com/richinsley/glframework/recorder"
	"github.com/richinsley/glframework/renderer"
	"github.com/richinsley/glframework/viewer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("glframework model viewer/recorder")
		flag.PrintDefaults()
		return
	}
	if *opts.Config != "" {
		if err := opts.LoadFile(*opts.Config, options.Explicit(flag.CommandLine)); err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	cacheDir := *opts.CacheDir
	if cacheDir == "" {
		dir, err := fetch.CacheDir("assets")
		if err != nil {
			log.Printf("Warning: download cache disabled: %v", err)
		}
		cacheDir = dir
	}
	fetcher := fetch.NewClient(cacheDir)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *opts.Record {
		runRecord(ctx, opts, fetcher)
	} else {
		runInteractive(ctx, opts, fetcher)
	}
}

func runInteractive(ctx context.Context, opts *options.ViewerOptions, fetcher fetch.Fetcher) {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	surface := glfwcontext.New(*opts.Width, *opts.Height, "glframework", true)
	defer surface.Shutdown()

	v := viewer.New(fetcher, *opts.Model, *opts.Texture, false)
	r := renderer.New(v.Hooks(), renderer.WithClearColor(0.1, 0.1, 0.1, 1))
	if err := r.Initialize(ctx, surface, !*opts.GL2); err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	surface.RegisterKeyCallback(glfw.KeyF11, surface.ToggleFullScreen)
	surface.AddFullScreenListener(func() {
		log.Printf("Fullscreen: %v", surface.IsFullScreen())
	})
	if *opts.Fullscreen {
		surface.EnterFullScreen()
	}
	go func() {
		<-ctx.Done()
		glfw.PostEmptyEvent()
	}()

	log.Println("Starting interactive render loop...")
	if err := surface.Run(ctx); err != nil {
		log.Fatalf("Render loop failed: %v", err)
	}
}

func runRecord(ctx context.Context, opts *options.ViewerOptions, fetcher fetch.Fetcher) {
	surface := headless.New(*opts.Width, *opts.Height)
	defer surface.Shutdown()

	v := viewer.New(fetcher, *opts.Model, *opts.Texture, true)
	v.FPS = *opts.FPS
	r := renderer.New(v.Hooks())
	if err := r.Initialize(ctx, surface, !*opts.GL2); err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	// Assets load asynchronously; pump frames until they land so the
	// recording starts with the model in view.
	for r.Pending() > 0 && ctx.Err() == nil {
		surface.Run(ctx, 1)
		time.Sleep(time.Millisecond)
	}

	w, h := r.Viewport()
	rec := recorder.New(recorder.Options{
		OutputFile: *opts.OutputFile,
		Width:      w,
		Height:     h,
		FPS:        *opts.FPS,
		Codec:      *opts.Codec,
		FFMPEGPath: *opts.FFMPEGPath,
		HWAccel:    *opts.HWAccel,
	})
	if err := rec.Start(); err != nil {
		log.Fatalf("Failed to start recorder: %v", err)
	}
	v.Recorder = rec

	log.Println("Starting offscreen render loop...")
	n := surface.Run(ctx, *opts.Frames)
	if err := rec.Close(); err != nil {
		log.Fatalf("Offscreen rendering failed: %v", err)
	}
	if n < *opts.Frames {
		log.Printf("Recording interrupted after %d of %d frames", n, *opts.Frames)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
}
