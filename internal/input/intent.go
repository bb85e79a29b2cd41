package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Intent is one tick of player input. Move is x = strafe, y = forward and is
// clamped to unit length. Yaw (degrees) rotates the input space about world up.
type Intent struct {
	Move mgl64.Vec2
	Yaw  float64
	Jump bool
	Run  bool
	Peak bool
}

func clampMove(move mgl64.Vec2) mgl64.Vec2 {
	length := move.Len()
	if math.IsNaN(length) {
		return mgl64.Vec2{}
	}
	if length > 1 {
		return move.Mul(1 / length)
	}
	return move
}

// inputAxes returns the flattened forward and right axes of an input space
// rotated by yaw degrees. Yaw 0 maps forward to +z and right to +x.
func inputAxes(yaw float64) (forward, right mgl64.Vec3) {
	rad := mgl64.DegToRad(yaw)
	sin, cos := math.Sincos(rad)
	forward = mgl64.Vec3{sin, 0, cos}
	right = mgl64.Vec3{cos, 0, -sin}
	return forward, right
}
