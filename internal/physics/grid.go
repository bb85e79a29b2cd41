package physics

import (
	"sync"

	"github.com/Versifine/stride/internal/locomotion"
)

type BlockPos struct {
	X int
	Y int
	Z int
}

// Grid is a sparse world of unit blocks, each tagged with a surface.
type Grid struct {
	mu     sync.RWMutex
	blocks map[BlockPos]locomotion.Surface
}

func NewGrid() *Grid {
	return &Grid{blocks: make(map[BlockPos]locomotion.Surface)}
}

func (g *Grid) Set(x, y, z int, surface locomotion.Surface) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blocks[BlockPos{X: x, Y: y, Z: z}] = surface
}

// Fill sets every block in the inclusive box between a and b.
func (g *Grid) Fill(a, b BlockPos, surface locomotion.Surface) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
		for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
			for z := min(a.Z, b.Z); z <= max(a.Z, b.Z); z++ {
				g.blocks[BlockPos{X: x, Y: y, Z: z}] = surface
			}
		}
	}
}

func (g *Grid) Remove(x, y, z int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.blocks, BlockPos{X: x, Y: y, Z: z})
}

func (g *Grid) SurfaceAt(x, y, z int) (locomotion.Surface, bool) {
	if g == nil {
		return 0, false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.blocks[BlockPos{X: x, Y: y, Z: z}]
	return s, ok
}

func (g *Grid) IsSolid(x, y, z int) bool {
	_, ok := g.SurfaceAt(x, y, z)
	return ok
}

func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.blocks)
}
