// Package matrix builds the model, view and projection matrices used by the renderer.
package matrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var xAxis = mgl32.Vec3{1, 0, 0}

// Model composes a model matrix from translation, Euler rotation (radians,
// applied X then Y then Z) and scale.
//
// The zero-angle rotation about X is inert but kept so results stay
// bit-identical with existing content.
func Model(t, r, s mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Ident4()
	m = m.Mul4(mgl32.HomogRotate3D(0, xAxis))
	m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	m = m.Mul4(mgl32.HomogRotate3DX(r[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(r[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(r[2]))
	return m
}

// MVP returns proj × (view × model).
func MVP(proj, view, model mgl32.Mat4) mgl32.Mat4 {
	return proj.Mul4(view.Mul4(model))
}

// Bounds are the six clip planes of a frustum.
type Bounds struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// FrustumBounds derives a symmetric frustum from a vertical field of view in degrees.
func FrustumBounds(fovY, aspect, near, far float32) Bounds {
	fH := float32(math.Tan(float64(fovY)/360.0*math.Pi)) * near
	fW := fH * aspect
	return Bounds{Left: -fW, Right: fW, Bottom: -fH, Top: fH, Near: near, Far: far}
}

// Frustum builds the projection matrix for b.
func (b Bounds) Frustum() mgl32.Mat4 {
	return mgl32.Frustum(b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far)
}

// Perspective is FrustumBounds(...).Frustum().
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	return FrustumBounds(fovY, aspect, near, far).Frustum()
}

// Ortho returns an orthographic projection, used for off-screen passes.
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Ortho(left, right, bottom, top, near, far)
}
