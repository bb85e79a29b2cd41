package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Adjust steers the in-plane velocity toward desired, changing each plane
// axis by at most the grounded or airborne acceleration times dt. Motion
// along the contact normal is left alone.
func (c *Controller) Adjust(desired mgl64.Vec3, grounded bool, dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adjust(desired, grounded, dt)
}

func (c *Controller) adjust(desired mgl64.Vec3, grounded bool, dt float64) {
	s := &c.state
	s.DesiredVelocity = desired

	xAxis, xOK := normalized(c.projectOnContactPlane(worldRight))
	zAxis, zOK := normalized(c.projectOnContactPlane(worldForward))

	acceleration := c.settings.MaxAirAcceleration
	if grounded {
		acceleration = c.settings.MaxAcceleration
	}
	maxSpeedChange := acceleration * dt

	currentX := s.Velocity.Dot(xAxis)
	currentZ := s.Velocity.Dot(zAxis)
	newX := moveTowards(currentX, desired.X(), maxSpeedChange)
	newZ := moveTowards(currentZ, desired.Z(), maxSpeedChange)

	if xOK {
		s.Velocity = s.Velocity.Add(xAxis.Mul(newX - currentX))
	}
	if zOK {
		s.Velocity = s.Velocity.Add(zAxis.Mul(newZ - currentZ))
	}
}

func (c *Controller) projectOnContactPlane(v mgl64.Vec3) mgl64.Vec3 {
	n := c.state.ContactNormal
	return v.Sub(n.Mul(v.Dot(n)))
}
