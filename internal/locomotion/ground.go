package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Resolve decides the grounded state for the current tick from the contacts
// classified so far, falling back to a ground snap and then to steep
// promotion.
func (c *Controller) Resolve() Grounding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve()
}

func (c *Controller) resolve() Grounding {
	s := &c.state
	s.StepsSinceLastGrounded++
	s.StepsSinceLastJump++
	s.Velocity = c.body.Velocity()

	grounding := GroundNone
	switch {
	case c.directContact():
		grounding = GroundContact
	case c.snapToGround():
		grounding = GroundSnap
	case c.promoteSteepContacts():
		grounding = GroundSteep
	}

	if grounding == GroundNone {
		s.ContactNormal = worldUp
		return GroundNone
	}

	s.StepsSinceLastGrounded = 0
	if s.StepsSinceLastJump > 1 {
		s.JumpPhase = 0
	}
	return grounding
}

// directContact averages the accumulated ground normals. Normals that cancel
// out leave no usable ground and the contacts are discarded.
func (c *Controller) directContact() bool {
	s := &c.state
	if s.GroundContactCount == 0 {
		return false
	}
	normal, ok := normalized(s.ContactNormal)
	if !ok {
		s.GroundContactCount = 0
		s.ContactNormal = mgl64.Vec3{}
		return false
	}
	s.ContactNormal = normal
	return true
}

func (c *Controller) snapToGround() bool {
	s := &c.state
	// Too long in the air to bridge, or the jump that left the ground is too recent.
	if s.StepsSinceLastGrounded > 1 || s.StepsSinceLastJump <= 2 {
		return false
	}
	speed := s.Velocity.Len()
	if speed > c.settings.MaxSnapSpeed {
		return false
	}
	if c.prober == nil {
		return false
	}

	hit, ok := c.prober.Raycast(c.body.Position(), worldDown, c.settings.ProbeDistance, c.settings.ProbeSurfaces)
	if !ok {
		return false
	}
	normal, ok := normalized(hit.Normal)
	if !ok || normal.Y() < c.minDotFor(hit.Surface) {
		return false
	}

	s.GroundContactCount = 1
	s.ContactNormal = normal
	if dot := s.Velocity.Dot(normal); dot > 0 {
		along := s.Velocity.Sub(normal.Mul(dot))
		if dir, ok := normalized(along); ok {
			s.Velocity = dir.Mul(speed)
		} else {
			s.Velocity = along
		}
	}
	return true
}

// promoteSteepContacts treats several steep contacts whose average is
// walkable, such as the sides of a narrow crevasse, as ground.
func (c *Controller) promoteSteepContacts() bool {
	s := &c.state
	if s.SteepContactCount <= 1 {
		return false
	}
	normal, ok := normalized(s.SteepNormal)
	if !ok {
		return false
	}
	s.SteepNormal = normal
	if normal.Y() < c.minGroundDot {
		return false
	}
	s.GroundContactCount = 1
	s.ContactNormal = normal
	return true
}
