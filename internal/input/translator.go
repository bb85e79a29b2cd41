package input

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Command is what the locomotion core consumes from one tick of input.
type Command struct {
	Desired     mgl64.Vec3
	JumpPressed bool
	Mode        Mode
	Speed       float64
}

// Translator turns intents into desired velocities. Switching movement mode
// blends the target speed over a fixed duration.
type Translator struct {
	speeds Speeds
	blend  time.Duration

	mode     Mode
	speed    float64
	tween    *gween.Tween
	lastJump bool
}

func NewTranslator(speeds Speeds, blend time.Duration) *Translator {
	return &Translator{
		speeds: speeds,
		blend:  blend,
		mode:   Walking,
		speed:  speeds.Walking,
	}
}

func (t *Translator) Speed() float64 {
	return t.speed
}

func (t *Translator) Mode() Mode {
	return t.mode
}

func (t *Translator) Translate(intent Intent, dt float64) Command {
	t.setMode(modeOf(intent))
	t.advance(dt)

	jumpPressed := intent.Jump && !t.lastJump
	t.lastJump = intent.Jump

	move := clampMove(intent.Move)
	forward, right := inputAxes(intent.Yaw)
	desired := forward.Mul(move.Y()).Add(right.Mul(move.X())).Mul(t.speed)

	return Command{
		Desired:     desired,
		JumpPressed: jumpPressed,
		Mode:        t.mode,
		Speed:       t.speed,
	}
}

// Reset drops any running speed blend and the jump edge memory.
func (t *Translator) Reset() {
	t.mode = Walking
	t.speed = t.speeds.Walking
	t.tween = nil
	t.lastJump = false
}

func (t *Translator) setMode(mode Mode) {
	if mode == t.mode {
		return
	}
	t.mode = mode
	target, ok := t.speeds.For(mode)
	if !ok {
		return
	}
	if t.blend <= 0 {
		t.speed = target
		t.tween = nil
		return
	}
	t.tween = gween.New(float32(t.speed), float32(target), float32(t.blend.Seconds()), ease.InOutQuad)
}

func (t *Translator) advance(dt float64) {
	if t.tween == nil {
		return
	}
	current, finished := t.tween.Update(float32(dt))
	t.speed = float64(current)
	if finished {
		t.tween = nil
	}
}
