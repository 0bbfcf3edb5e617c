package favilla

import (
	"math"
	"testing"

	lin "github.com/xlab/linmath"
)

func transformPoint(m *lin.Mat4x4, v lin.Vec4) lin.Vec4 {
	var out lin.Vec4
	for row := 0; row < 4; row++ {
		var sum float32
		for col := 0; col < 4; col++ {
			sum += m[col][row] * v[col]
		}
		out[row] = sum
	}
	return out
}

func nearEqual(a, b lin.Vec4) bool {
	const eps = 1e-5
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

func TestCameraViewProjection(t *testing.T) {
	camera := NewCamera(lin.Vec2{100, 100}, 0, 1)

	vp := camera.ViewProjectionMatrix()

	// The centre of the visible region lands in the middle of clip space.
	got := transformPoint(&vp, lin.Vec4{50, 50, 0, 1})
	if !nearEqual(got, lin.Vec4{0, 0, 0, 1}) {
		t.Errorf("centre maps to %v, want origin", got)
	}

	// World y up means the minimum corner is at the bottom of the viewport,
	// which in Vulkan clip space is positive y.
	got = transformPoint(&vp, lin.Vec4{0, 0, 0, 1})
	if !nearEqual(got, lin.Vec4{-1, 1, 0, 1}) {
		t.Errorf("min corner maps to %v, want (-1, 1, 0, 1)", got)
	}

	got = transformPoint(&vp, lin.Vec4{100, 100, 0, 1})
	if !nearEqual(got, lin.Vec4{1, -1, 0, 1}) {
		t.Errorf("max corner maps to %v, want (1, -1, 0, 1)", got)
	}
}

func TestCameraDepthRange(t *testing.T) {
	camera := NewCamera(lin.Vec2{10, 10}, 0, 1)

	vp := camera.ViewProjectionMatrix()

	near := transformPoint(&vp, lin.Vec4{5, 5, 0, 1})
	far := transformPoint(&vp, lin.Vec4{5, 5, 1, 1})

	if math.Abs(float64(near[2])) > 1e-5 {
		t.Errorf("near plane depth = %v, want 0", near[2])
	}
	if math.Abs(float64(far[2]-1)) > 1e-5 {
		t.Errorf("far plane depth = %v, want 1", far[2])
	}
}

func TestCameraCentreOn(t *testing.T) {
	camera := NewCamera(lin.Vec2{100, 50}, 0, 1)

	camera.CentreOn(lin.Vec2{200, 100})

	if camera.Min() != (lin.Vec2{150, 75}) {
		t.Errorf("min = %v, want (150, 75)", camera.Min())
	}
	if camera.Max() != (lin.Vec2{250, 125}) {
		t.Errorf("max = %v, want (250, 125)", camera.Max())
	}
	if camera.Centre() != (lin.Vec2{200, 100}) {
		t.Errorf("centre = %v, want (200, 100)", camera.Centre())
	}

	vp := camera.ViewProjectionMatrix()
	got := transformPoint(&vp, lin.Vec4{200, 100, 0, 1})
	if !nearEqual(got, lin.Vec4{0, 0, 0, 1}) {
		t.Errorf("centre maps to %v, want origin", got)
	}
}
