package locomotion

import "github.com/go-gl/mathgl/mgl64"

// State is the per-character locomotion state. It is mutated only by the
// Controller; the zero value is the construction (and respawn) state.
type State struct {
	Velocity        mgl64.Vec3
	DesiredVelocity mgl64.Vec3
	ContactNormal   mgl64.Vec3
	SteepNormal     mgl64.Vec3

	GroundContactCount int
	SteepContactCount  int

	JumpPhase              int
	StepsSinceLastGrounded int
	StepsSinceLastJump     int

	PendingJump bool
}

func (s State) OnGround() bool {
	return s.GroundContactCount > 0
}

func (s State) OnSteep() bool {
	return s.SteepContactCount > 0
}

// Grounding tells how the ground resolver classified a tick.
type Grounding uint8

const (
	GroundNone Grounding = iota
	GroundContact
	GroundSnap
	GroundSteep
)

func (g Grounding) String() string {
	switch g {
	case GroundContact:
		return "contact"
	case GroundSnap:
		return "snap"
	case GroundSteep:
		return "steep"
	default:
		return "airborne"
	}
}

// Report summarises one tick. ContactNormal is the resolved normal, captured
// before the end-of-tick clear.
type Report struct {
	Grounding     Grounding
	Grounded      bool
	OnSteep       bool
	Jumped        bool
	JumpPhase     int
	Velocity      mgl64.Vec3
	ContactNormal mgl64.Vec3
}
