package favilla

import (
	lin "github.com/xlab/linmath"
)

// openGLToVulkanMatrix remaps OpenGL clip space (z in [-1,1]) to Vulkan clip
// space (z in [0,1]). Columns of a column-major matrix.
var openGLToVulkanMatrix = lin.Mat4x4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 0.5, 0},
	{0, 0, 0.5, 1},
}

// Camera is a 2D camera over a rectangular world region. It produces Vulkan
// clip space projection matrices with y pointing up in world space and depth
// mapped from [near, far] to [0, 1].
type Camera struct {
	min    lin.Vec2
	extent lin.Vec2
	near   float32
	far    float32
}

// NewCamera creates a camera showing a region of the given extent with its
// minimum corner at the origin.
func NewCamera(extent lin.Vec2, near, far float32) *Camera {
	return &Camera{extent: extent, near: near, far: far}
}

// Min returns the minimum visible world corner.
func (c *Camera) Min() lin.Vec2 {
	return c.min
}

// SetMin moves the minimum visible world corner.
func (c *Camera) SetMin(min lin.Vec2) {
	c.min = min
}

// Centre returns the centre of the visible region.
func (c *Camera) Centre() lin.Vec2 {
	return lin.Vec2{c.min[0] + 0.5*c.extent[0], c.min[1] + 0.5*c.extent[1]}
}

// Max returns the maximum visible world corner.
func (c *Camera) Max() lin.Vec2 {
	return lin.Vec2{c.min[0] + c.extent[0], c.min[1] + c.extent[1]}
}

// Extent returns the size of the visible region.
func (c *Camera) Extent() lin.Vec2 {
	return c.extent
}

// SetExtent resizes the visible region, keeping the minimum corner.
func (c *Camera) SetExtent(extent lin.Vec2) {
	c.extent = extent
}

func (c *Camera) Near() float32 {
	return c.near
}

func (c *Camera) Far() float32 {
	return c.far
}

// CentreOn moves the camera so the visible region is centred on the given
// point.
func (c *Camera) CentreOn(centre lin.Vec2) {
	c.min = lin.Vec2{centre[0] - 0.5*c.extent[0], centre[1] - 0.5*c.extent[1]}
}

// ViewProjectionMatrix returns the combined view and projection matrix for
// the camera's current position.
func (c *Camera) ViewProjectionMatrix() lin.Mat4x4 {
	ex, ey := c.extent[0], c.extent[1]
	depth := c.far - c.near

	m := lin.Mat4x4{
		{2 / ex, 0, 0, 0},
		{0, 2 / ey, 0, 0},
		{0, 0, 2 / depth, 0},
		{-(ex + 2*c.min[0]) / ex, -(ey + 2*c.min[1]) / ey, -(c.far + c.near) / depth, 1},
	}

	var vp lin.Mat4x4
	mulMat4x4(&vp, &openGLToVulkanMatrix, &m)
	iv := c.invertViewport()
	mulMat4x4(&vp, &vp, &iv)
	return vp
}

// ProjectionMatrix returns the projection matrix alone, ignoring the camera's
// position.
func (c *Camera) ProjectionMatrix() lin.Mat4x4 {
	ex, ey := c.extent[0], c.extent[1]
	depth := c.far - c.near

	m := lin.Mat4x4{
		{2 / ex, 0, 0, 0},
		{0, 2 / ey, 0, 0},
		{0, 0, 2 / depth, 0},
		{-1, -1, -(c.far + c.near) / depth, 1},
	}

	var p lin.Mat4x4
	mulMat4x4(&p, &openGLToVulkanMatrix, &m)
	iv := c.invertViewport()
	mulMat4x4(&p, &p, &iv)
	return p
}

// Vulkan's window coordinates have y pointing down; flip world y so that up
// stays up.
func (c *Camera) invertViewport() lin.Mat4x4 {
	return lin.Mat4x4{
		{1, 0, 0, 0},
		{0, -1, 0, 0},
		{0, 0, 1, 0},
		{0, c.extent[1], 0, 1},
	}
}

// mulMat4x4 computes dst = a * b for column-major matrices. dst may alias a
// or b.
func mulMat4x4(dst, a, b *lin.Mat4x4) {
	var tmp lin.Mat4x4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k][row] * b[col][k]
			}
			tmp[col][row] = sum
		}
	}
	*dst = tmp
}
