package chipmunk

import (
	"math"
	"testing"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
)

var gravity = mgl64.Vec3{0, -9.81, 0}

type recordingSink struct {
	contacts []locomotion.Contact
}

func (s *recordingSink) Classify(contacts ...locomotion.Contact) {
	s.contacts = append(s.contacts, contacts...)
}

func newFloorWorld(spawn mgl64.Vec3) *World {
	w := NewWorld(gravity, DefaultRadius, spawn)
	w.AddBox(mgl64.Vec3{-10, -1, 0}, mgl64.Vec3{10, 0, 0}, locomotion.SurfaceDefault)
	return w
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func TestWorldStep_DeliversGroundContacts(t *testing.T) {
	w := newFloorWorld(mgl64.Vec3{0, 0.6, 0})
	sink := &recordingSink{}
	w.Attach(sink)

	for i := 0; i < 25; i++ {
		w.Step(0.02)
	}

	if len(sink.contacts) == 0 {
		t.Fatalf("no contacts delivered")
	}
	last := sink.contacts[len(sink.contacts)-1]
	approxEqual(t, last.Normal.Y(), 1, 1e-6, "normal.y")
	approxEqual(t, last.Normal.X(), 0, 1e-6, "normal.x")
	if last.Surface != locomotion.SurfaceDefault {
		t.Fatalf("surface = %v, want default", last.Surface)
	}
	if w.Position().Y() < 0.3 {
		t.Fatalf("character fell through the floor: y=%.3f", w.Position().Y())
	}
}

func TestWorldStep_SlopeContactNormal(t *testing.T) {
	w := NewWorld(gravity, DefaultRadius, mgl64.Vec3{0, 1.5, 0})
	w.AddSegment(mgl64.Vec3{-5, -5, 0}, mgl64.Vec3{5, 5, 0}, 0, locomotion.SurfaceStairs)
	sink := &recordingSink{}
	w.Attach(sink)

	for i := 0; i < 100 && len(sink.contacts) == 0; i++ {
		w.Step(0.02)
	}

	if len(sink.contacts) == 0 {
		t.Fatalf("no contacts delivered")
	}
	c := sink.contacts[0]
	approxEqual(t, c.Normal.X(), -math.Sqrt2/2, 1e-6, "normal.x")
	approxEqual(t, c.Normal.Y(), math.Sqrt2/2, 1e-6, "normal.y")
	if c.Surface != locomotion.SurfaceStairs {
		t.Fatalf("surface = %v, want stairs", c.Surface)
	}
}

func TestWorld_VelocityStaysInPlane(t *testing.T) {
	w := NewWorld(gravity, 0, mgl64.Vec3{})

	w.SetVelocity(mgl64.Vec3{1, 2, 3})

	if got := w.Velocity(); got != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("Velocity() = %v, want (1,2,0)", got)
	}
	if w.Radius() != DefaultRadius {
		t.Fatalf("Radius() = %v, want %v", w.Radius(), DefaultRadius)
	}
}

func TestWorld_Teleport(t *testing.T) {
	w := NewWorld(gravity, DefaultRadius, mgl64.Vec3{})
	w.SetVelocity(mgl64.Vec3{4, 4, 0})

	w.Teleport(mgl64.Vec3{3, 7, 0})

	if got := w.Position(); got != (mgl64.Vec3{3, 7, 0}) {
		t.Fatalf("Position() = %v, want (3,7,0)", got)
	}
	if got := w.Velocity(); got != (mgl64.Vec3{}) {
		t.Fatalf("Velocity() = %v, want zero", got)
	}
}

func TestWorldRaycast(t *testing.T) {
	w := newFloorWorld(mgl64.Vec3{0, 0.5, 0})
	w.AddBox(mgl64.Vec3{20, -1, 0}, mgl64.Vec3{30, 0, 0}, locomotion.SurfaceDetail)
	down := mgl64.Vec3{0, -1, 0}

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		distance float64
		surfaces locomotion.SurfaceSet
		wantHit  bool
	}{
		{"floor under character", mgl64.Vec3{0, 0.5, 0}, 1, locomotion.AllSurfaces(), true},
		{"floor out of reach", mgl64.Vec3{0, 3, 0}, 1, locomotion.AllSurfaces(), false},
		{"filtered surface", mgl64.Vec3{25, 0.5, 0}, 1, locomotion.SurfaceSet{locomotion.SurfaceDefault}, false},
		{"detail surface", mgl64.Vec3{25, 0.5, 0}, 1, locomotion.AllSurfaces(), true},
		{"zero distance", mgl64.Vec3{0, 0.5, 0}, 0, locomotion.AllSurfaces(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Raycast(tt.origin, down, tt.distance, tt.surfaces)
			if ok != tt.wantHit {
				t.Fatalf("Raycast() hit = %t, want %t", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			approxEqual(t, hit.Normal.Y(), 1, 1e-9, "normal.y")
			approxEqual(t, hit.Point.Y(), 0, 1e-9, "point.y")
		})
	}
}

func TestCategoriesOf(t *testing.T) {
	got := categoriesOf(locomotion.SurfaceSet{locomotion.SurfaceDefault, locomotion.SurfaceDetail})
	want := categoryOf(locomotion.SurfaceDefault) | categoryOf(locomotion.SurfaceDetail)
	if got != want {
		t.Fatalf("categoriesOf() = %b, want %b", got, want)
	}
	if got&categoryOf(locomotion.SurfaceStairs) != 0 {
		t.Fatalf("stairs category should not be set")
	}
}
