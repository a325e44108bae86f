package options

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ViewerOptions holds the viewer settings. Fields point at flag storage so a
// config file can fill in whatever the command line left unset.
type ViewerOptions struct {
	Model      *string
	Texture    *string
	Width      *int
	Height     *int
	GL2        *bool // Restrict to the baseline context
	Record     *bool
	Frames     *int
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	HWAccel    *bool
	Config     *string
	CacheDir   *string
	Fullscreen *bool
	Help       *bool
}

// Register defines the viewer flags on fs.
func Register(fs *flag.FlagSet) *ViewerOptions {
	return &ViewerOptions{
		Model:      fs.String("model", "", "Model base URL or path (loads <model>-indices.bin and <model>-strides.bin)"),
		Texture:    fs.String("texture", "", "Diffuse texture URL or path (png, jpeg, gif, bmp, webp or .pkm)"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		GL2:        fs.Bool("gl2", false, "Use the baseline context only"),
		Record:     fs.Bool("record", false, "Render headless and record to a video file"),
		Frames:     fs.Int("frames", 600, "Number of frames to record"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:      fs.String("codec", "h264", "Video codec for recording (h264 or hevc)"),
		HWAccel:    fs.Bool("hwaccel", false, "Use the platform hardware encoder"),
		Config:     fs.String("config", "", "Optional TOML config file"),
		CacheDir:   fs.String("cache", "", "Directory for cached downloads (default: user cache dir)"),
		Fullscreen: fs.Bool("fullscreen", false, "Start fullscreen"),
		Help:       fs.Bool("help", false, "Show help message"),
	}
}

type fileOptions struct {
	Model      *string `toml:"model"`
	Texture    *string `toml:"texture"`
	Width      *int    `toml:"width"`
	Height     *int    `toml:"height"`
	GL2        *bool   `toml:"gl2"`
	Record     *bool   `toml:"record"`
	Frames     *int    `toml:"frames"`
	FPS        *int    `toml:"fps"`
	OutputFile *string `toml:"output"`
	FFMPEGPath *string `toml:"ffmpeg"`
	Codec      *string `toml:"codec"`
	HWAccel    *bool   `toml:"hwaccel"`
	CacheDir   *string `toml:"cache"`
	Fullscreen *bool   `toml:"fullscreen"`
}

// LoadFile merges the TOML file at path into o. Values for flags named in
// explicit are left alone. Unknown keys are an error.
func (o *ViewerOptions) LoadFile(path string, explicit map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var f fileOptions
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeString(explicit, "model", o.Model, f.Model)
	mergeString(explicit, "texture", o.Texture, f.Texture)
	mergeInt(explicit, "width", o.Width, f.Width)
	mergeInt(explicit, "height", o.Height, f.Height)
	mergeBool(explicit, "gl2", o.GL2, f.GL2)
	mergeBool(explicit, "record", o.Record, f.Record)
	mergeInt(explicit, "frames", o.Frames, f.Frames)
	mergeInt(explicit, "fps", o.FPS, f.FPS)
	mergeString(explicit, "output", o.OutputFile, f.OutputFile)
	mergeString(explicit, "ffmpeg", o.FFMPEGPath, f.FFMPEGPath)
	mergeString(explicit, "codec", o.Codec, f.Codec)
	mergeBool(explicit, "hwaccel", o.HWAccel, f.HWAccel)
	mergeString(explicit, "cache", o.CacheDir, f.CacheDir)
	mergeBool(explicit, "fullscreen", o.Fullscreen, f.Fullscreen)
	return nil
}

// Explicit returns the names of the flags set on the command line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func mergeString(explicit map[string]bool, name string, dst, src *string) {
	if src != nil && dst != nil && !explicit[name] {
		*dst = *src
	}
}

func mergeInt(explicit map[string]bool, name string, dst, src *int) {
	if src != nil && dst != nil && !explicit[name] {
		*dst = *src
	}
}

func mergeBool(explicit map[string]bool, name string, dst, src *bool) {
	if src != nil && dst != nil && !explicit[name] {
		*dst = *src
	}
}

// Validate reports settings the viewer cannot run with.
func (o *ViewerOptions) Validate() error {
	if *o.Model == "" {
		return fmt.Errorf("a model is required")
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.Record && *o.Frames <= 0 {
		return fmt.Errorf("frames must be positive when recording")
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		return fmt.Errorf("unsupported codec %q", *o.Codec)
	}
	return nil
}
