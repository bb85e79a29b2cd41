package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Contact is a single collision contact delivered by the physics backend.
// Normal points out of the touched surface.
type Contact struct {
	Normal  mgl64.Vec3
	Surface Surface
}

// ContactSink receives contacts from a physics backend. Controller
// implements it.
type ContactSink interface {
	Classify(contacts ...Contact)
}

// Classify sorts contacts into ground and steep buckets. It may be called any
// number of times per tick; accumulation is additive and order independent.
func (c *Controller) Classify(contacts ...Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, contact := range contacts {
		c.classify(contact)
	}
}

func (c *Controller) classify(contact Contact) {
	normal := contact.Normal
	switch {
	case normal.Y() >= c.minDotFor(contact.Surface):
		c.state.GroundContactCount++
		c.state.ContactNormal = c.state.ContactNormal.Add(normal)
	case normal.Y() > steepFloor:
		c.state.SteepContactCount++
		c.state.SteepNormal = c.state.SteepNormal.Add(normal)
	}
}
