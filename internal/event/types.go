package event

import (
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	EventLanded     = "locomotion.landed"
	EventLeftGround = "locomotion.left_ground"
	EventJumped     = "locomotion.jumped"
	EventSnapped    = "locomotion.snapped"
	EventConfig     = "config.reloaded"
)

// GroundEvent reports a change in how the character is supported.
type GroundEvent struct {
	Tick      uint64
	Grounding locomotion.Grounding
	Normal    mgl64.Vec3
}

type JumpEvent struct {
	Tick     uint64
	Phase    int
	Velocity mgl64.Vec3
}

type ConfigEvent struct {
	Path string
}
