package matrix

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = float32(1e-5)

func assertMat(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], float64(tol), "element %d", i)
	}
}

func TestModelPureTranslation(t *testing.T) {
	m := Model(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), m)
}

func TestModelOrder(t *testing.T) {
	tr := mgl32.Vec3{0.5, -1, 4}
	rot := mgl32.Vec3{0.3, -0.7, 1.1}
	sc := mgl32.Vec3{2, 3, 0.5}

	want := mgl32.Translate3D(tr[0], tr[1], tr[2]).
		Mul4(mgl32.Scale3D(sc[0], sc[1], sc[2])).
		Mul4(mgl32.HomogRotate3DX(rot[0])).
		Mul4(mgl32.HomogRotate3DY(rot[1])).
		Mul4(mgl32.HomogRotate3DZ(rot[2]))
	assertMat(t, want, Model(tr, rot, sc))

	// rotating a unit X point: Z first, then Y, then X, then scale, then translate
	p := Model(mgl32.Vec3{}, mgl32.Vec3{0, 0, math.Pi / 2}, mgl32.Vec3{2, 2, 2}).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
}

func TestMVP(t *testing.T) {
	proj := Perspective(60, 1.5, 0.1, 50)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	model := Model(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{1, 1, 1})
	assertMat(t, proj.Mul4(view).Mul4(model), MVP(proj, view, model))
}

func TestFrustumBounds(t *testing.T) {
	b := FrustumBounds(90, 1, 1, 100)
	assert.InDelta(t, -1, b.Left, 1e-6)
	assert.InDelta(t, 1, b.Right, 1e-6)
	assert.InDelta(t, -1, b.Bottom, 1e-6)
	assert.InDelta(t, 1, b.Top, 1e-6)
	assert.Equal(t, float32(1), b.Near)
	assert.Equal(t, float32(100), b.Far)

	wide := FrustumBounds(90, 2, 0.5, 10)
	assert.InDelta(t, 0.5, wide.Top, 1e-6)
	assert.InDelta(t, 1, wide.Right, 1e-6)
}

func TestPerspectiveIsFrustum(t *testing.T) {
	assertMat(t, mgl32.Frustum(-1, 1, -1, 1, 1, 100), Perspective(90, 1, 1, 100))
}
