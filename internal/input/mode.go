package input

// Mode selects which configured target speed feeds the desired velocity.
type Mode uint8

const (
	Walking Mode = iota
	Running
	Peaking
	// Jumping is reserved for callers that want to keep the current speed.
	// An Intent never maps to it.
	Jumping
)

func (m Mode) String() string {
	switch m {
	case Walking:
		return "walking"
	case Running:
		return "running"
	case Peaking:
		return "peaking"
	case Jumping:
		return "jumping"
	default:
		return "unknown"
	}
}

type Speeds struct {
	Walking float64
	Running float64
	Peaking float64
}

// For returns the target speed of a mode and whether the mode selects one.
// Jumping and unknown modes select none.
func (s Speeds) For(mode Mode) (float64, bool) {
	switch mode {
	case Walking:
		return s.Walking, true
	case Running:
		return s.Running, true
	case Peaking:
		return s.Peaking, true
	default:
		return 0, false
	}
}

func modeOf(intent Intent) Mode {
	switch {
	case intent.Peak:
		return Peaking
	case intent.Run:
		return Running
	default:
		return Walking
	}
}
