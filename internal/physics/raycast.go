package physics

import (
	"iter"
	"math"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
)

type voxelCrossing struct {
	Pos    BlockPos
	Normal mgl64.Vec3
	T      float64
}

// Raycast walks the blocks along the ray and returns the first solid block
// whose surface is in surfaces. The block containing origin is never hit.
func (g *Grid) Raycast(origin, dir mgl64.Vec3, maxDistance float64, surfaces locomotion.SurfaceSet) (locomotion.Hit, bool) {
	length := dir.Len()
	if g == nil || length == 0 || math.IsNaN(length) {
		return locomotion.Hit{}, false
	}
	dir = dir.Mul(1 / length)

	for crossing := range crossings(origin, dir, maxDistance) {
		surface, solid := g.SurfaceAt(crossing.Pos.X, crossing.Pos.Y, crossing.Pos.Z)
		if !solid || !surfaces.Contains(surface) {
			continue
		}
		return locomotion.Hit{
			Normal:  crossing.Normal,
			Point:   origin.Add(dir.Mul(crossing.T)),
			Surface: surface,
		}, true
	}
	return locomotion.Hit{}, false
}

// crossings yields every block boundary the ray enters within maxDistance,
// in order, together with the face it entered through.
func crossings(origin, dir mgl64.Vec3, maxDistance float64) iter.Seq[voxelCrossing] {
	return func(yield func(voxelCrossing) bool) {
		var cell, step [3]int
		var tMax, tDelta [3]float64
		for i := 0; i < 3; i++ {
			cell[i] = int(math.Floor(origin[i]))
			switch {
			case dir[i] > 0:
				step[i] = 1
				tMax[i] = (float64(cell[i]+1) - origin[i]) / dir[i]
				tDelta[i] = 1 / dir[i]
			case dir[i] < 0:
				step[i] = -1
				tMax[i] = (origin[i] - float64(cell[i])) / -dir[i]
				tDelta[i] = -1 / dir[i]
			default:
				tMax[i] = math.Inf(1)
				tDelta[i] = math.Inf(1)
			}
		}

		for {
			axis := 0
			if tMax[1] < tMax[axis] {
				axis = 1
			}
			if tMax[2] < tMax[axis] {
				axis = 2
			}
			t := tMax[axis]
			if t > maxDistance {
				return
			}

			cell[axis] += step[axis]
			var normal mgl64.Vec3
			normal[axis] = -float64(step[axis])
			if !yield(voxelCrossing{
				Pos:    BlockPos{X: cell[0], Y: cell[1], Z: cell[2]},
				Normal: normal,
				T:      t,
			}) {
				return
			}
			tMax[axis] += tDelta[axis]
		}
	}
}
