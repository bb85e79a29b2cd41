package locomotion

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the externally integrated rigid body the controller steers.
type Body interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
}

// Hit is the result of a ground probe.
type Hit struct {
	Normal  mgl64.Vec3
	Point   mgl64.Vec3
	Surface Surface
}

// Prober casts rays against the physics world, considering only colliders
// whose surface is in surfaces.
type Prober interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64, surfaces SurfaceSet) (Hit, bool)
}

// Controller owns the locomotion State of one character. Classify and
// RequestJump may be called from physics callbacks on any goroutine; every
// other method is expected to run on the tick goroutine.
type Controller struct {
	settings     Settings
	minGroundDot float64
	minStairDot  float64

	body   Body
	prober Prober

	mu     sync.Mutex
	state  State
	report Report
}

func New(settings Settings, body Body, prober Prober) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body is nil", ErrInvalidSettings)
	}
	return &Controller{
		settings:     settings,
		minGroundDot: minDot(settings.MaxGroundAngle),
		minStairDot:  minDot(settings.MaxStairAngle),
		body:         body,
		prober:       prober,
		report:       Report{ContactNormal: worldUp},
	}, nil
}

func (c *Controller) Settings() Settings {
	return c.settings
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastReport returns the report of the most recent Tick.
func (c *Controller) LastReport() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// Reset puts the controller back into its construction state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	c.report = Report{ContactNormal: worldUp}
}

// RequestJump latches a jump request until the next Tick consumes it.
func (c *Controller) RequestJump() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PendingJump = true
}

// Tick runs one fixed simulation step: resolve ground, steer velocity, resolve
// a pending jump, hand the velocity to the body and clear the contacts.
func (c *Controller) Tick(desired mgl64.Vec3, dt float64) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	grounding := c.resolve()
	grounded := c.state.OnGround()
	c.adjust(desired, grounded, dt)

	jumped := false
	if c.state.PendingJump {
		c.state.PendingJump = false
		jumped = c.jump()
	}

	c.body.SetVelocity(c.state.Velocity)

	c.report = Report{
		Grounding:     grounding,
		Grounded:      grounded,
		OnSteep:       c.state.OnSteep(),
		Jumped:        jumped,
		JumpPhase:     c.state.JumpPhase,
		Velocity:      c.state.Velocity,
		ContactNormal: c.state.ContactNormal,
	}
	c.clear()
	return c.report
}

// Clear drops the contacts accumulated for the current tick.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

func (c *Controller) clear() {
	c.state.GroundContactCount = 0
	c.state.SteepContactCount = 0
	c.state.ContactNormal = mgl64.Vec3{}
	c.state.SteepNormal = mgl64.Vec3{}
}

func (c *Controller) minDotFor(surface Surface) float64 {
	if c.settings.StairsSurfaces.Contains(surface) {
		return c.minStairDot
	}
	return c.minGroundDot
}
