package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBody struct {
	position mgl64.Vec3
	velocity mgl64.Vec3
	writes   int
}

func (b *fakeBody) Position() mgl64.Vec3 { return b.position }
func (b *fakeBody) Velocity() mgl64.Vec3 { return b.velocity }
func (b *fakeBody) SetVelocity(v mgl64.Vec3) {
	b.velocity = v
	b.writes++
}

type fakeProber struct {
	hit   Hit
	ok    bool
	calls int

	origin   mgl64.Vec3
	dir      mgl64.Vec3
	distance float64
}

func (p *fakeProber) Raycast(origin, dir mgl64.Vec3, maxDistance float64, surfaces SurfaceSet) (Hit, bool) {
	p.calls++
	p.origin, p.dir, p.distance = origin, dir, maxDistance
	if !p.ok || !surfaces.Contains(p.hit.Surface) {
		return Hit{}, false
	}
	return p.hit, true
}

func newTestController(t *testing.T, settings Settings) (*Controller, *fakeBody, *fakeProber) {
	t.Helper()
	body := &fakeBody{position: mgl64.Vec3{0, 1, 0}}
	prober := &fakeProber{}
	c, err := New(settings, body, prober)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, body, prober
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func approxVec(t *testing.T, got, want mgl64.Vec3, tol float64, field string) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("%s = %v, want %v (tol=%.8f)", field, got, want, tol)
		}
	}
}

// slope returns the unit normal of a surface tilted by degrees around the z axis.
func slope(degrees float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(degrees)
	return mgl64.Vec3{-math.Sin(rad), math.Cos(rad), 0}
}

var flat = Contact{Normal: mgl64.Vec3{0, 1, 0}, Surface: SurfaceDefault}
