package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"

	// Decoders registered for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/sync/errgroup"

	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/graphics"
)

// Decode decodes any registered image format and converts it to RGBA.
func Decode(data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

// toRGBA returns img as an origin-anchored RGBA image with tightly packed rows.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FetchImage retrieves and decodes an image. Safe off the render thread.
func FetchImage(ctx context.Context, f fetch.Fetcher, url string) (*image.RGBA, error) {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("loading image %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("loading image %s: %w", url, ErrEmptyPayload)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image %s: %w", url, err)
	}
	return img, nil
}

// UploadImage creates an RGBA texture from img with cfg's sampling.
func UploadImage(gl graphics.GL, img *image.RGBA, cfg Config) Texture {
	width, height := img.Rect.Dx(), img.Rect.Dy()

	id := gl.CreateTexture()
	gl.BindTexture(graphics.TEXTURE_2D, id)
	gl.TexImage2D(graphics.TEXTURE_2D, 0, int32(graphics.RGBA), int32(width), int32(height), graphics.RGBA, graphics.UNSIGNED_BYTE, img.Pix)

	minFilter, magFilter := cfg.filters()
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_S, cfg.wrapMode())
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_T, cfg.wrapMode())
	if usesMipmaps(minFilter) {
		gl.GenerateMipmap(graphics.TEXTURE_2D)
	}
	gl.BindTexture(graphics.TEXTURE_2D, 0)

	return Texture{ID: id, Target: graphics.TEXTURE_2D, Width: width, Height: height}
}

// Load fetches, decodes and uploads an image texture.
func Load(ctx context.Context, gl graphics.GL, f fetch.Fetcher, url string, cfg Config) (Texture, error) {
	img, err := FetchImage(ctx, f, url)
	if err != nil {
		return Texture{}, err
	}
	t := UploadImage(gl, img, cfg)
	log.Printf("Loaded texture %s [%dx%d]", url, t.Width, t.Height)
	return t, nil
}

// CubeFaces are the six decoded faces in GL face order: +X, -X, +Y, -Y, +Z, -Z.
type CubeFaces [6]*image.RGBA

var cubeSuffixes = [6]string{"-posx", "-negx", "-posy", "-negy", "-posz", "-negz"}

// FetchCubemap retrieves the six faces <base>-posx.<ext> ... <base>-negz.<ext>
// concurrently. Any face failing fails the whole cubemap.
func FetchCubemap(ctx context.Context, f fetch.Fetcher, base, ext string) (*CubeFaces, error) {
	if ext == "" {
		ext = "png"
	}
	faces := &CubeFaces{}
	g, ctx := errgroup.WithContext(ctx)
	for i, suffix := range cubeSuffixes {
		url := base + suffix + "." + ext
		g.Go(func() error {
			img, err := FetchImage(ctx, f, url)
			if err != nil {
				return err
			}
			faces[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading cubemap %s: %w", base, err)
	}
	return faces, nil
}

// UploadCubemap creates a cube texture, uploading each face as RGB. Face rows
// are tightly packed, so the unpack alignment is 1 during the uploads.
func UploadCubemap(gl graphics.GL, faces *CubeFaces) Texture {
	id := gl.CreateTexture()
	gl.BindTexture(graphics.TEXTURE_CUBE_MAP, id)
	gl.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_S, int32(graphics.CLAMP_TO_EDGE))
	gl.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_T, int32(graphics.CLAMP_TO_EDGE))
	gl.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MAG_FILTER, int32(graphics.LINEAR))
	gl.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MIN_FILTER, int32(graphics.NEAREST))

	gl.PixelStorei(graphics.UNPACK_ALIGNMENT, 1)
	for i, face := range faces {
		w, h := face.Rect.Dx(), face.Rect.Dy()
		gl.TexImage2D(graphics.TEXTURE_CUBE_MAP_POSITIVE_X+graphics.Enum(i), 0, int32(graphics.RGB),
			int32(w), int32(h), graphics.RGB, graphics.UNSIGNED_BYTE, rgb(face))
	}
	gl.PixelStorei(graphics.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(graphics.TEXTURE_CUBE_MAP, 0)

	return Texture{
		ID:     id,
		Target: graphics.TEXTURE_CUBE_MAP,
		Width:  faces[0].Rect.Dx(),
		Height: faces[0].Rect.Dy(),
	}
}

// LoadCubemap fetches and uploads a cubemap.
func LoadCubemap(ctx context.Context, gl graphics.GL, f fetch.Fetcher, base, ext string) (Texture, error) {
	faces, err := FetchCubemap(ctx, f, base, ext)
	if err != nil {
		return Texture{}, err
	}
	t := UploadCubemap(gl, faces)
	log.Printf("Loaded cubemap %s [%dx%d]", base, t.Width, t.Height)
	return t, nil
}

// rgb packs an RGBA image into tightly packed RGB rows.
func rgb(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			out = append(out, row[x], row[x+1], row[x+2])
		}
	}
	return out
}
