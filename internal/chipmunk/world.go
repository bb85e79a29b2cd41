package chipmunk

import (
	"math"
	"sync"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeSolid
)

// characterGroup keeps the character out of its own ground probe.
const characterGroup uint = 1

const (
	DefaultRadius     = 0.5
	DefaultMass       = 1.0
	DefaultIterations = 20
)

// World is a 2D chipmunk space in the vertical XY plane. It drives exactly
// one character and exposes it through the locomotion Body and Prober
// interfaces. Z is always zero.
type World struct {
	mu        sync.Mutex
	space     *cp.Space
	character *cp.Body
	shape     *cp.Shape
	radius    float64

	sink    locomotion.ContactSink
	pending []locomotion.Contact
}

// NewWorld creates a space with the given gravity and a circular character
// of the given radius at spawn.
func NewWorld(gravity mgl64.Vec3, radius float64, spawn mgl64.Vec3) *World {
	if radius <= 0 {
		radius = DefaultRadius
	}

	space := cp.NewSpace()
	space.Iterations = DefaultIterations
	space.SetGravity(toVector(gravity))

	body := space.AddBody(cp.NewBody(DefaultMass, cp.INFINITY))
	body.SetPosition(toVector(spawn))

	shape := space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFilter(cp.NewShapeFilter(characterGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	w := &World{
		space:     space,
		character: body,
		shape:     shape,
		radius:    radius,
	}

	handler := space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	handler.UserData = w
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		world.collect(arb)
		return true
	}

	return w
}

// collect runs inside space.Step with w.mu held.
func (w *World) collect(arb *cp.Arbiter) {
	a, b := arb.Shapes()
	n := arb.Normal()
	solid := b
	if b == w.shape {
		solid = a
	} else {
		// Arbiter normals point from A to B; contacts point out of the surface.
		n = n.Neg()
	}

	surface := surfaceOf(solid)
	normal := mgl64.Vec3{n.X, n.Y, 0}
	for i := 0; i < arb.Count(); i++ {
		w.pending = append(w.pending, locomotion.Contact{Normal: normal, Surface: surface})
	}
}

// Attach sets where contacts are delivered after each Step.
func (w *World) Attach(sink locomotion.ContactSink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sink = sink
}

// AddSegment adds static geometry between a and b. Only X and Y are used.
func (w *World) AddSegment(a, b mgl64.Vec3, radius float64, surface locomotion.Surface) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.addStatic(cp.NewSegment(w.space.StaticBody, toVector(a), toVector(b), radius), surface)
}

// AddBox adds a static axis-aligned box spanning lo to hi.
func (w *World) AddBox(lo, hi mgl64.Vec3, surface locomotion.Surface) {
	w.mu.Lock()
	defer w.mu.Unlock()
	bb := cp.BB{L: lo.X(), B: lo.Y(), R: hi.X(), T: hi.Y()}
	w.addStatic(cp.NewBox2(w.space.StaticBody, bb, 0), surface)
}

func (w *World) addStatic(shape *cp.Shape, surface locomotion.Surface) {
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryOf(surface), cp.ALL_CATEGORIES))
	shape.UserData = surface
	w.space.AddShape(shape)
}

func (w *World) Position() mgl64.Vec3 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fromVector(w.character.Position())
}

func (w *World) Velocity() mgl64.Vec3 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fromVector(w.character.Velocity())
}

func (w *World) SetVelocity(v mgl64.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.character.SetVelocityVector(toVector(v))
}

// Teleport moves the character and stops it.
func (w *World) Teleport(pos mgl64.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.character.SetPosition(toVector(pos))
	w.character.SetVelocityVector(cp.Vector{})
}

func (w *World) Radius() float64 {
	return w.radius
}

// Step advances the space by dt and hands the contacts gathered during the
// step to the attached sink.
func (w *World) Step(dt float64) {
	w.mu.Lock()
	w.pending = w.pending[:0]
	w.space.Step(dt)
	contacts := append([]locomotion.Contact(nil), w.pending...)
	sink := w.sink
	w.mu.Unlock()

	if sink != nil && len(contacts) > 0 {
		sink.Classify(contacts...)
	}
}

// Raycast returns the first static shape along the ray whose surface is in
// surfaces. The character itself is never hit.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDistance float64, surfaces locomotion.SurfaceSet) (locomotion.Hit, bool) {
	length := math.Hypot(dir.X(), dir.Y())
	if length == 0 || math.IsNaN(length) || maxDistance <= 0 {
		return locomotion.Hit{}, false
	}
	start := toVector(origin)
	end := start.Add(cp.Vector{X: dir.X() / length, Y: dir.Y() / length}.Mult(maxDistance))
	filter := cp.NewShapeFilter(characterGroup, cp.ALL_CATEGORIES, categoriesOf(surfaces))

	w.mu.Lock()
	info := w.space.SegmentQueryFirst(start, end, 0, filter)
	w.mu.Unlock()

	if info.Shape == nil {
		return locomotion.Hit{}, false
	}
	return locomotion.Hit{
		Normal:  fromVector(info.Normal),
		Point:   fromVector(info.Point),
		Surface: surfaceOf(info.Shape),
	}, true
}

func surfaceOf(shape *cp.Shape) locomotion.Surface {
	if shape == nil {
		return locomotion.SurfaceDefault
	}
	if s, ok := shape.UserData.(locomotion.Surface); ok {
		return s
	}
	return locomotion.SurfaceDefault
}

func categoryOf(surface locomotion.Surface) uint {
	return 1 << uint(surface)
}

func categoriesOf(set locomotion.SurfaceSet) uint {
	var mask uint
	for _, s := range set {
		mask |= categoryOf(s)
	}
	return mask
}

func toVector(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

func fromVector(v cp.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, 0}
}
