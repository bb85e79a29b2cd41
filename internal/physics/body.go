package physics

import (
	"sync"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is an axis-aligned box integrated against a Grid. Position is the
// centre of the box.
type Body struct {
	grid    *Grid
	gravity mgl64.Vec3
	width   float64
	height  float64

	mu       sync.Mutex
	sink     locomotion.ContactSink
	position mgl64.Vec3
	velocity mgl64.Vec3
}

func NewBody(grid *Grid, gravity mgl64.Vec3, width, height float64) *Body {
	if width <= 0 {
		width = DefaultBodyWidth
	}
	if height <= 0 {
		height = DefaultBodyHeight
	}
	return &Body{
		grid:    grid,
		gravity: gravity,
		width:   width,
		height:  height,
	}
}

// Attach sets where contacts are delivered.
func (b *Body) Attach(sink locomotion.ContactSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
}

func (b *Body) Position() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

func (b *Body) Velocity() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.velocity
}

func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.velocity = v
}

// Teleport moves the body and stops it.
func (b *Body) Teleport(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = pos
	b.velocity = mgl64.Vec3{}
}

// Feet returns the centre of the bottom face.
func (b *Body) Feet() mgl64.Vec3 {
	pos := b.Position()
	return pos.Sub(mgl64.Vec3{0, b.height / 2, 0})
}

func (b *Body) AABB() AABB {
	return BodyAABB(b.Position(), b.width, b.height)
}

// Step integrates gravity and velocity over dt, resolving collisions one
// axis at a time (Y, X, Z), then reports every block touching the box.
func (b *Body) Step(dt float64) {
	b.mu.Lock()
	v := b.velocity.Add(b.gravity.Mul(dt))
	delta := v.Mul(dt)
	box := BodyAABB(b.position, b.width, b.height)

	for _, axis := range [3]int{1, 0, 2} {
		moved, blocked := b.grid.sweepAxis(box, axis, delta[axis])
		var offset mgl64.Vec3
		offset[axis] = moved
		box = box.Offset(offset)
		if blocked {
			v[axis] = 0
		}
	}

	b.position = box.Center()
	b.velocity = v
	sink := b.sink
	b.mu.Unlock()

	if sink == nil {
		return
	}
	if contacts := b.grid.TouchContacts(box); len(contacts) > 0 {
		sink.Classify(contacts...)
	}
}

var faceDirections = [...]mgl64.Vec3{
	{0, -1, 0},
	{1, 0, 0},
	{-1, 0, 0},
	{0, 0, 1},
	{0, 0, -1},
	{0, 1, 0},
}

// TouchContacts returns one contact per block resting against a face of box.
// Normals point from the block toward the box.
func (g *Grid) TouchContacts(box AABB) []locomotion.Contact {
	var contacts []locomotion.Contact
	for _, dir := range faceDirections {
		for _, pos := range g.Overlapping(faceSlab(box, dir)) {
			surface, _ := g.SurfaceAt(pos.X, pos.Y, pos.Z)
			contacts = append(contacts, locomotion.Contact{Normal: dir.Mul(-1), Surface: surface})
		}
	}
	return contacts
}

// faceSlab is a thin box just outside the face of box pointing along dir.
func faceSlab(box AABB, dir mgl64.Vec3) AABB {
	slab := box
	for axis := 0; axis < 3; axis++ {
		switch {
		case dir[axis] > 0:
			slab.Min[axis] = box.Max[axis]
			slab.Max[axis] = box.Max[axis] + TouchDistance
		case dir[axis] < 0:
			slab.Min[axis] = box.Min[axis] - TouchDistance
			slab.Max[axis] = box.Min[axis]
		}
	}
	return slab
}
