package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BodyAABB returns the box of a body centred on center.
func BodyAABB(center mgl64.Vec3, width, height float64) AABB {
	half := mgl64.Vec3{width / 2, height / 2, width / 2}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Offset(d mgl64.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

func blockAABB(p BlockPos) AABB {
	lo := mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
	return AABB{Min: lo, Max: lo.Add(mgl64.Vec3{1, 1, 1})}
}

// Overlapping returns every solid block intersecting box.
func (g *Grid) Overlapping(box AABB) []BlockPos {
	if g == nil {
		return nil
	}
	var blocks []BlockPos
	for y := floorForMin(box.Min.Y()); y <= floorForMax(box.Max.Y()); y++ {
		for x := floorForMin(box.Min.X()); x <= floorForMax(box.Max.X()); x++ {
			for z := floorForMin(box.Min.Z()); z <= floorForMax(box.Max.Z()); z++ {
				pos := BlockPos{X: x, Y: y, Z: z}
				if g.IsSolid(x, y, z) && intersects(box, blockAABB(pos)) {
					blocks = append(blocks, pos)
				}
			}
		}
	}
	return blocks
}

func (g *Grid) CollidesWith(box AABB) bool {
	return len(g.Overlapping(box)) > 0
}

// sweepAxis moves box along one axis by delta and returns the distance it can
// travel before touching a solid block.
func (g *Grid) sweepAxis(box AABB, axis int, delta float64) (float64, bool) {
	if g == nil || nearlyZero(delta) {
		return delta, false
	}

	a1, a2 := (axis+1)%3, (axis+2)%3
	lo1, hi1 := floorForMin(box.Min[a1]), floorForMax(box.Max[a1])
	lo2, hi2 := floorForMin(box.Min[a2]), floorForMax(box.Max[a2])

	solidLayer := func(c int) bool {
		var cell [3]int
		cell[axis] = c
		for i := lo1; i <= hi1; i++ {
			for j := lo2; j <= hi2; j++ {
				cell[a1], cell[a2] = i, j
				if g.IsSolid(cell[0], cell[1], cell[2]) {
					return true
				}
			}
		}
		return false
	}

	allowed := delta
	if delta > 0 {
		start := floorForMin(box.Max[axis])
		end := int(math.Floor(box.Max[axis] + delta))
		for c := start; c <= end; c++ {
			candidate := float64(c) - box.Max[axis]
			if candidate < -CollisionAxisTolerance || !solidLayer(c) {
				continue
			}
			allowed = math.Max(candidate, 0)
			break
		}
	} else {
		start := floorForMax(box.Min[axis])
		end := int(math.Floor(box.Min[axis] + delta))
		for c := start; c >= end; c-- {
			candidate := float64(c+1) - box.Min[axis]
			if candidate > CollisionAxisTolerance || !solidLayer(c) {
				continue
			}
			allowed = math.Min(candidate, 0)
			break
		}
	}

	return allowed, !nearlyEqual(allowed, delta)
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func intersects(a, b AABB) bool {
	return a.Min.X() < b.Max.X() &&
		a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() &&
		a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() &&
		a.Max.Z() > b.Min.Z()
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}
