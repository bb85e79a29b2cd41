package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// primeGrounded leaves the controller as if it stood on flat ground for long
// enough that both hysteresis counters allow a snap on the next tick.
func primeGrounded(c *Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.StepsSinceLastGrounded = 0
	c.state.StepsSinceLastJump = 10
}

func TestResolve_DirectContactAveragesNormals(t *testing.T) {
	c, _, prober := newTestController(t, DefaultSettings())
	c.Classify(Contact{Normal: slope(10)}, Contact{Normal: slope(-10)})

	if got := c.Resolve(); got != GroundContact {
		t.Fatalf("Resolve() = %v, want contact", got)
	}
	s := c.State()
	approxVec(t, s.ContactNormal, mgl64.Vec3{0, 1, 0}, 1e-12, "contactNormal")
	if s.StepsSinceLastGrounded != 0 {
		t.Fatalf("stepsSinceLastGrounded = %d, want 0", s.StepsSinceLastGrounded)
	}
	if prober.calls != 0 {
		t.Fatalf("probe called %d times, want 0 with direct contact", prober.calls)
	}
}

func TestResolve_AirborneUsesWorldUp(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())

	if got := c.Resolve(); got != GroundNone {
		t.Fatalf("Resolve() = %v, want airborne", got)
	}
	s := c.State()
	if s.ContactNormal != (mgl64.Vec3{0, 1, 0}) {
		t.Fatalf("contactNormal = %v, want world up", s.ContactNormal)
	}
	if s.StepsSinceLastGrounded != 1 || s.StepsSinceLastJump != 1 {
		t.Fatalf("counters = %d/%d, want 1/1", s.StepsSinceLastGrounded, s.StepsSinceLastJump)
	}
}

func TestResolve_DegenerateGroundNormalIsNotGround(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxGroundAngle = 90
	c, _, _ := newTestController(t, settings)
	c.Classify(Contact{Normal: mgl64.Vec3{0, 1e-9, 0}})

	if got := c.Resolve(); got != GroundNone {
		t.Fatalf("Resolve() = %v, want airborne", got)
	}
	s := c.State()
	if s.GroundContactCount != 0 {
		t.Fatalf("ground contacts = %d, want 0", s.GroundContactCount)
	}
	for i := 0; i < 3; i++ {
		if math.IsNaN(s.ContactNormal[i]) {
			t.Fatalf("contactNormal = %v contains NaN", s.ContactNormal)
		}
	}
}

func TestResolve_ResetsJumpPhaseAfterSettling(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())
	c.state.JumpPhase = 1
	c.state.StepsSinceLastJump = 0

	c.Classify(flat)
	c.Resolve()
	if c.State().JumpPhase != 1 {
		t.Fatalf("jumpPhase reset one tick after jumping")
	}

	c.Clear()
	c.Classify(flat)
	c.Resolve()
	if c.State().JumpPhase != 0 {
		t.Fatalf("jumpPhase = %d, want 0 after two grounded ticks", c.State().JumpPhase)
	}
}

func TestSnapToGround(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(c *Controller, body *fakeBody, prober *fakeProber)
		wantSnap bool
	}{
		{
			name:     "walked off a ledge",
			prepare:  func(c *Controller, body *fakeBody, prober *fakeProber) {},
			wantSnap: true,
		},
		{
			name: "jumped two ticks ago",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				c.state.StepsSinceLastJump = 1
			},
		},
		{
			name: "airborne for two ticks",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				c.state.StepsSinceLastGrounded = 1
			},
		},
		{
			name: "falling faster than snap speed",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				body.velocity = mgl64.Vec3{0, -20, 0}
			},
		},
		{
			name: "nothing below",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				prober.ok = false
			},
		},
		{
			name: "too steep below",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				prober.hit.Normal = slope(45)
			},
		},
		{
			name: "steep stairs below",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				prober.hit.Normal = slope(45)
				prober.hit.Surface = SurfaceStairs
			},
			wantSnap: true,
		},
		{
			name: "surface excluded from probe",
			prepare: func(c *Controller, body *fakeBody, prober *fakeProber) {
				prober.hit.Surface = SurfaceDetail
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.MaxSnapSpeed = 10
			settings.ProbeSurfaces = SurfaceSet{SurfaceDefault, SurfaceStairs}
			settings.StairsSurfaces = SurfaceSet{SurfaceStairs}
			c, body, prober := newTestController(t, settings)
			primeGrounded(c)
			body.velocity = mgl64.Vec3{3, 0, 0}
			prober.ok = true
			prober.hit = Hit{Normal: mgl64.Vec3{0, 1, 0}, Point: mgl64.Vec3{0, 0.5, 0}}
			tt.prepare(c, body, prober)

			got := c.Resolve()
			if (got == GroundSnap) != tt.wantSnap {
				t.Fatalf("Resolve() = %v, want snap=%t", got, tt.wantSnap)
			}
			s := c.State()
			if tt.wantSnap {
				if s.GroundContactCount != 1 || s.StepsSinceLastGrounded != 0 {
					t.Fatalf("after snap ground=%d steps=%d, want 1/0", s.GroundContactCount, s.StepsSinceLastGrounded)
				}
				return
			}
			if s.GroundContactCount != 0 {
				t.Fatalf("ground contacts = %d after failed snap", s.GroundContactCount)
			}
		})
	}
}

func TestSnapToGround_ProbesDownFromBody(t *testing.T) {
	settings := DefaultSettings()
	settings.ProbeDistance = 1.5
	c, body, prober := newTestController(t, settings)
	primeGrounded(c)
	body.position = mgl64.Vec3{2, 3, 4}

	c.Resolve()

	if prober.calls != 1 {
		t.Fatalf("probe calls = %d, want 1", prober.calls)
	}
	if prober.origin != body.position || prober.dir != (mgl64.Vec3{0, -1, 0}) || prober.distance != 1.5 {
		t.Fatalf("probe = %v %v %v", prober.origin, prober.dir, prober.distance)
	}
}

func TestSnapToGround_RedirectsVelocityAlongSurface(t *testing.T) {
	c, body, prober := newTestController(t, DefaultSettings())
	primeGrounded(c)
	body.velocity = mgl64.Vec3{3, 1, 0}
	prober.ok = true
	prober.hit = Hit{Normal: mgl64.Vec3{0, 1, 0}}

	if got := c.Resolve(); got != GroundSnap {
		t.Fatalf("Resolve() = %v, want snap", got)
	}
	v := c.State().Velocity
	approxVec(t, v, mgl64.Vec3{math.Sqrt(10), 0, 0}, 1e-9, "velocity")
}

func TestSnapToGround_KeepsVelocityMovingIntoSurface(t *testing.T) {
	c, body, prober := newTestController(t, DefaultSettings())
	primeGrounded(c)
	body.velocity = mgl64.Vec3{3, -1, 0}
	prober.ok = true
	prober.hit = Hit{Normal: mgl64.Vec3{0, 1, 0}}

	c.Resolve()

	approxVec(t, c.State().Velocity, mgl64.Vec3{3, -1, 0}, 1e-12, "velocity")
}

func TestPromoteSteepContacts(t *testing.T) {
	tests := []struct {
		name     string
		contacts []Contact
		want     Grounding
	}{
		{
			name:     "single wall",
			contacts: []Contact{{Normal: slope(60)}},
			want:     GroundNone,
		},
		{
			name:     "v-shaped crevasse",
			contacts: []Contact{{Normal: slope(60)}, {Normal: slope(-60)}},
			want:     GroundSteep,
		},
		{
			name:     "corner of two walls",
			contacts: []Contact{{Normal: mgl64.Vec3{1, 0, 0}}, {Normal: mgl64.Vec3{0, 0, 1}}},
			want:     GroundNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, DefaultSettings())
			c.Classify(tt.contacts...)

			if got := c.Resolve(); got != tt.want {
				t.Fatalf("Resolve() = %v, want %v", got, tt.want)
			}
			s := c.State()
			if tt.want == GroundSteep {
				approxVec(t, s.ContactNormal, mgl64.Vec3{0, 1, 0}, 1e-12, "contactNormal")
				if s.GroundContactCount != 1 {
					t.Fatalf("ground contacts = %d, want 1", s.GroundContactCount)
				}
			} else if s.GroundContactCount != 0 {
				t.Fatalf("ground contacts = %d, want 0", s.GroundContactCount)
			}
		})
	}
}
