package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func groundedOn(c *Controller, normal mgl64.Vec3) {
	c.state.GroundContactCount = 1
	c.state.ContactNormal = normal
}

func TestAdjust_AcceleratesFromRestOnFlatGround(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())
	groundedOn(c, mgl64.Vec3{0, 1, 0})

	c.Adjust(mgl64.Vec3{5, 0, 0}, true, 0.02)

	approxVec(t, c.State().Velocity, mgl64.Vec3{0.2, 0, 0}, 1e-12, "velocity")
}

func TestAdjust_SpeedChangeIsCapped(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		desired  float64
		grounded bool
		want     float64
	}{
		{"approach", 0, 5, true, 0.2},
		{"overshoot", 5, 0, true, 4.8},
		{"reverse", 1, -3, true, 0.8},
		{"lands on target", 0.1, 0.15, true, 0.15},
		{"air control", 0, 5, false, 0.02},
		{"air braking", 2, 0, false, 1.98},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, DefaultSettings())
			groundedOn(c, mgl64.Vec3{0, 1, 0})
			c.state.Velocity = mgl64.Vec3{tt.current, 0, -tt.current}

			c.Adjust(mgl64.Vec3{tt.desired, 0, -tt.desired}, tt.grounded, 0.02)

			v := c.State().Velocity
			approxEqual(t, v.X(), tt.want, 1e-12, "velocity.x")
			approxEqual(t, v.Z(), -tt.want, 1e-12, "velocity.z")
			limit := 10 * 0.02
			if !tt.grounded {
				limit = 1 * 0.02
			}
			if math.Abs(v.X()-tt.current) > limit+1e-12 {
				t.Fatalf("speed change %.6f exceeds %.6f", math.Abs(v.X()-tt.current), limit)
			}
		})
	}
}

func TestAdjust_LeavesVerticalVelocityOnFlatGround(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())
	groundedOn(c, mgl64.Vec3{0, 1, 0})
	c.state.Velocity = mgl64.Vec3{0, -3, 0}

	c.Adjust(mgl64.Vec3{5, 7, 5}, true, 0.02)

	approxEqual(t, c.State().Velocity.Y(), -3, 1e-12, "velocity.y")
}

func TestProjectOnContactPlane_FlatGroundIsIdentity(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())
	groundedOn(c, mgl64.Vec3{0, 1, 0})

	desired := mgl64.Vec3{3.5, 0, -1.25}
	if got := c.projectOnContactPlane(desired); got != desired {
		t.Fatalf("projectOnContactPlane(%v) = %v", desired, got)
	}
}

func TestAdjust_FollowsSlope(t *testing.T) {
	c, _, _ := newTestController(t, DefaultSettings())
	normal := slope(20)
	groundedOn(c, normal)

	for i := 0; i < 10; i++ {
		c.Adjust(mgl64.Vec3{5, 0, 0}, true, 0.02)
	}

	v := c.State().Velocity
	approxEqual(t, v.Dot(normal), 0, 1e-12, "velocity along normal")
	approxEqual(t, v.Len(), 2.0, 1e-9, "speed along slope")
	if v.Y() <= 0 {
		t.Fatalf("velocity.y = %v, want climbing the slope", v.Y())
	}
}
