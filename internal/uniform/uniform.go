// Package uniform computes the per-frame transform block read by the vertex
// shader.
package uniform

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferObject matches the std140 layout of the shader's uniform block.
type BufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

const Size = int(unsafe.Sizeof(BufferObject{}))

// Compute returns the transforms at elapsed seconds for a target of the
// given size: the model spins about Z at 90 degrees per second, seen from
// (2,2,2).
func Compute(elapsed float64, width, height int) BufferObject {
	angle := float32(math.Mod(elapsed, 4.0) * math.Pi / 2.0)

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10.0)
	// Vulkan clip space has Y pointing down.
	proj[5] *= -1

	return BufferObject{
		Model: mgl32.HomogRotate3DZ(angle),
		View:  mgl32.LookAtV(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}),
		Proj:  proj,
	}
}
