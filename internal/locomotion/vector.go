package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldDown    = mgl64.Vec3{0, -1, 0}
	worldRight   = mgl64.Vec3{1, 0, 0}
	worldForward = mgl64.Vec3{0, 0, 1}
)

// degenerateLength is the length under which a vector has no usable direction.
const degenerateLength = 1e-6

// steepFloor is the normal.y above which a non-walkable contact still counts as
// steep rather than a ceiling.
const steepFloor = -0.01

func normalized(v mgl64.Vec3) (mgl64.Vec3, bool) {
	length := v.Len()
	if math.IsNaN(length) || length < degenerateLength {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / length), true
}

// moveTowards steps current toward target by at most maxDelta without overshooting.
func moveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}
