package texture

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"

	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/graphics"
)

const (
	pkmHeaderSize   = 16
	pkmWidthOffset  = 8
	pkmHeightOffset = 10
)

// Compressed is a parsed PKM container holding ETC1 data.
type Compressed struct {
	Width   int
	Height  int
	Payload []byte
}

// ParseCompressed reads the PKM header. Width and height are big-endian
// 16-bit values at offsets 8 and 10; the payload follows the 16-byte header.
func ParseCompressed(data []byte) (*Compressed, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(data) < pkmHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(data))
	}
	return &Compressed{
		Width:   int(binary.BigEndian.Uint16(data[pkmWidthOffset:])),
		Height:  int(binary.BigEndian.Uint16(data[pkmHeightOffset:])),
		Payload: data[pkmHeaderSize:],
	}, nil
}

// UploadCompressed creates an ETC1 texture with linear filtering.
func UploadCompressed(gl graphics.GL, c *Compressed) Texture {
	id := gl.CreateTexture()
	gl.BindTexture(graphics.TEXTURE_2D, id)
	gl.CompressedTexImage2D(graphics.TEXTURE_2D, 0, graphics.ETC1_RGB8_OES, int32(c.Width), int32(c.Height), c.Payload)
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, int32(graphics.LINEAR))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, int32(graphics.LINEAR))
	gl.BindTexture(graphics.TEXTURE_2D, 0)
	return Texture{ID: id, Target: graphics.TEXTURE_2D, Width: c.Width, Height: c.Height}
}

// FetchCompressed retrieves and parses a PKM file. Safe off the render thread.
func FetchCompressed(ctx context.Context, f fetch.Fetcher, url string) (*Compressed, error) {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", url, err)
	}
	c, err := ParseCompressed(data)
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", url, err)
	}
	return c, nil
}

// LoadCompressed fetches, parses and uploads a PKM texture.
func LoadCompressed(ctx context.Context, gl graphics.GL, f fetch.Fetcher, url string) (Texture, error) {
	c, err := FetchCompressed(ctx, f, url)
	if err != nil {
		return Texture{}, err
	}
	t := UploadCompressed(gl, c)
	log.Printf("Loaded texture %s [%dx%d]", url, t.Width, t.Height)
	return t, nil
}
