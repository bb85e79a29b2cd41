package body

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrNilCharacter = errors.New("character is nil")

// Stepper integrates the physics world by dt.
type Stepper interface {
	Step(dt float64)
}

// Attacher is implemented by backends that deliver contacts to a sink.
type Attacher interface {
	Attach(sink locomotion.ContactSink)
}

type Teleporter interface {
	Teleport(pos mgl64.Vec3)
}

type Options struct {
	Settings locomotion.Settings
	Speeds   input.Speeds
	Blend    time.Duration
	Body     locomotion.Body
	Prober   locomotion.Prober
	Stepper  Stepper
	Spawn    mgl64.Vec3
	Bus      *event.Bus
}

// Character couples a locomotion controller to an input translator and a
// physics backend, and runs them in the fixed order of one simulation tick.
type Character struct {
	mu         sync.Mutex
	body       locomotion.Body
	prober     locomotion.Prober
	stepper    Stepper
	spawn      mgl64.Vec3
	bus        *event.Bus
	controller *locomotion.Controller
	translator *input.Translator
	command    input.Command
	ticks      uint64
	last       locomotion.Report
}

func New(opts Options) (*Character, error) {
	if opts.Stepper == nil {
		return nil, fmt.Errorf("stepper is nil")
	}
	controller, err := locomotion.New(opts.Settings, opts.Body, opts.Prober)
	if err != nil {
		return nil, fmt.Errorf("create controller: %w", err)
	}
	c := &Character{
		body:       opts.Body,
		prober:     opts.Prober,
		stepper:    opts.Stepper,
		spawn:      opts.Spawn,
		bus:        opts.Bus,
		controller: controller,
		translator: input.NewTranslator(opts.Speeds, opts.Blend),
		last:       controller.LastReport(),
	}
	c.attach()
	return c, nil
}

// attach routes backend contacts to the current controller.
func (c *Character) attach() {
	if a, ok := c.stepper.(Attacher); ok {
		a.Attach(c.controller)
		return
	}
	if a, ok := c.body.(Attacher); ok {
		a.Attach(c.controller)
	}
}

// Tick runs one fixed step: translate input, let the controller resolve
// contacts and write the body velocity, then integrate the physics world.
// Contacts gathered by the integration are consumed on the next Tick.
func (c *Character) Tick(intent input.Intent, dt float64) (locomotion.Report, error) {
	if c == nil {
		return locomotion.Report{}, ErrNilCharacter
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return locomotion.Report{}, fmt.Errorf("invalid tick duration %v", dt)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := c.translator.Translate(intent, dt)
	if cmd.JumpPressed {
		c.controller.RequestJump()
	}
	report := c.controller.Tick(cmd.Desired, dt)
	c.stepper.Step(dt)

	c.ticks++
	c.command = cmd
	c.publish(c.last, report)
	c.last = report
	return report, nil
}

func (c *Character) publish(prev, cur locomotion.Report) {
	if cur.Jumped {
		slog.Debug("Jumped", "tick", c.ticks, "phase", cur.JumpPhase, "velocity", cur.Velocity)
		c.bus.Publish(event.EventJumped, event.JumpEvent{
			Tick:     c.ticks,
			Phase:    cur.JumpPhase,
			Velocity: cur.Velocity,
		})
	}

	ground := event.GroundEvent{Tick: c.ticks, Grounding: cur.Grounding, Normal: cur.ContactNormal}
	switch {
	case !prev.Grounded && cur.Grounded:
		slog.Debug("Landed", "tick", c.ticks, "grounding", cur.Grounding, "normal", cur.ContactNormal)
		c.bus.Publish(event.EventLanded, ground)
	case prev.Grounded && !cur.Grounded:
		slog.Debug("Left ground", "tick", c.ticks, "grounding", cur.Grounding)
		c.bus.Publish(event.EventLeftGround, ground)
	}
	if cur.Grounding == locomotion.GroundSnap && prev.Grounding != locomotion.GroundSnap {
		c.bus.Publish(event.EventSnapped, ground)
	}
}

// Reconfigure replaces the locomotion settings. The controller restarts from
// a fresh state; the body keeps its position and velocity.
func (c *Character) Reconfigure(settings locomotion.Settings) error {
	if c == nil {
		return ErrNilCharacter
	}
	controller, err := locomotion.New(settings, c.body, c.prober)
	if err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = controller
	c.last = controller.LastReport()
	c.attach()
	slog.Info("Locomotion reconfigured", "max_ground_angle", settings.MaxGroundAngle, "jump_height", settings.JumpHeight, "max_air_jumps", settings.MaxAirJumps)
	return nil
}

// SetSpeeds replaces the movement-mode speeds.
func (c *Character) SetSpeeds(speeds input.Speeds, blend time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translator = input.NewTranslator(speeds, blend)
}

// Respawn returns the character to its spawn point with no velocity and a
// cleared locomotion state.
func (c *Character) Respawn() error {
	if c == nil {
		return ErrNilCharacter
	}
	return c.Teleport(c.spawn)
}

// Teleport moves the character and clears the locomotion state.
func (c *Character) Teleport(pos mgl64.Vec3) error {
	if c == nil {
		return ErrNilCharacter
	}
	t, ok := c.body.(Teleporter)
	if !ok {
		return fmt.Errorf("body %T cannot teleport", c.body)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t.Teleport(pos)
	c.controller.Reset()
	c.translator.Reset()
	c.last = c.controller.LastReport()
	return nil
}

func (c *Character) Position() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.body.Position()
}

func (c *Character) LastReport() locomotion.Report {
	if c == nil {
		return locomotion.Report{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Character) State() locomotion.State {
	if c == nil {
		return locomotion.State{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller.State()
}

// Command returns the translated input of the last tick.
func (c *Character) Command() input.Command {
	if c == nil {
		return input.Command{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.command
}

func (c *Character) Ticks() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
