package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Jump resolves a jump from the current contact state and reports whether an
// impulse was applied. A jump without a usable direction or air-jump budget
// is ignored.
func (c *Controller) Jump() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingJump = false
	return c.jump()
}

func (c *Controller) jump() bool {
	s := &c.state

	var direction mgl64.Vec3
	switch {
	case s.OnGround():
		direction = s.ContactNormal
	case s.OnSteep():
		direction = s.SteepNormal
		s.JumpPhase = 0
	case c.settings.MaxAirJumps > 0 && s.JumpPhase <= c.settings.MaxAirJumps:
		// Leaving the ground without jumping spends the ground jump.
		if s.JumpPhase == 0 {
			s.JumpPhase = 1
		}
		direction = s.ContactNormal
	default:
		return false
	}

	s.StepsSinceLastJump = 0
	s.JumpPhase++

	jumpSpeed := c.jumpSpeed()
	direction, ok := normalized(direction.Add(worldUp))
	if !ok {
		direction = worldUp
	}
	if aligned := s.Velocity.Dot(direction); aligned > 0 {
		jumpSpeed = math.Max(jumpSpeed-aligned, 0)
	}
	s.Velocity = s.Velocity.Add(direction.Mul(jumpSpeed))
	return true
}

// jumpSpeed is the launch speed that reaches JumpHeight against gravity.
func (c *Controller) jumpSpeed() float64 {
	return math.Sqrt(-2 * c.settings.Gravity.Y() * c.settings.JumpHeight)
}
