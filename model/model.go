// Package model loads indexed triangle meshes stored as a pair of headerless
// binary files: <base>-indices.bin (16-bit indices) and <base>-strides.bin
// (interleaved float vertex attributes).
package model

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/graphics"
)

// Data is a model fetched into memory but not yet on the GPU.
type Data struct {
	Indices []byte
	Strides []byte
}

// NumIndices is the triangle count implied by the index buffer: two bytes per
// index and three indices per triangle.
func (d *Data) NumIndices() int {
	return len(d.Indices) / 2 / 3
}

// Fetch retrieves both files of the model at base concurrently. Either
// failing fails the whole fetch. It is safe to call off the render thread.
func Fetch(ctx context.Context, f fetch.Fetcher, base string) (*Data, error) {
	d := &Data{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Indices, err = f.Fetch(ctx, base+"-indices.bin")
		return err
	})
	g.Go(func() error {
		var err error
		d.Strides, err = f.Fetch(ctx, base+"-strides.bin")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading model %s: %w", base, err)
	}
	return d, nil
}

// Model is an uploaded mesh. The zero value, and a nil *Model, are valid
// unloaded models that draw nothing.
type Model struct {
	indexBuffer  uint32
	strideBuffer uint32
	numIndices   int
}

// Upload creates the index and vertex buffers for d. It must run on the
// thread that owns gl.
func Upload(gl graphics.GL, d *Data) *Model {
	m := &Model{numIndices: d.NumIndices()}

	m.indexBuffer = gl.CreateBuffer()
	gl.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, m.indexBuffer)
	gl.BufferData(graphics.ELEMENT_ARRAY_BUFFER, d.Indices, graphics.STATIC_DRAW)

	m.strideBuffer = gl.CreateBuffer()
	gl.BindBuffer(graphics.ARRAY_BUFFER, m.strideBuffer)
	gl.BufferData(graphics.ARRAY_BUFFER, d.Strides, graphics.STATIC_DRAW)

	return m
}

// Load fetches and uploads in one step on the calling thread.
func Load(ctx context.Context, gl graphics.GL, f fetch.Fetcher, base string) (*Model, error) {
	d, err := Fetch(ctx, f, base)
	if err != nil {
		return nil, err
	}
	m := Upload(gl, d)
	log.Printf("Loaded model %s: %d triangles", base, m.numIndices)
	return m, nil
}

// BindBuffers binds the model's index and vertex buffers.
func (m *Model) BindBuffers(gl graphics.GL) {
	gl.BindBuffer(graphics.ARRAY_BUFFER, m.strideBuffer)
	gl.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, m.indexBuffer)
}

func (m *Model) NumIndices() int {
	if m == nil {
		return 0
	}
	return m.numIndices
}

func (m *Model) Loaded() bool {
	return m != nil && m.indexBuffer != 0 && m.strideBuffer != 0
}

// Destroy releases both buffers. The model reads as unloaded afterwards.
func (m *Model) Destroy(gl graphics.GL) {
	if !m.Loaded() {
		return
	}
	gl.DeleteBuffer(m.indexBuffer)
	gl.DeleteBuffer(m.strideBuffer)
	*m = Model{}
}
