package input

// Source yields one Intent per tick until it is exhausted.
type Source interface {
	Next() (Intent, bool)
}

type Step struct {
	Ticks  int
	Intent Intent
}

// Script replays a fixed list of steps, each held for its tick count.
type Script struct {
	steps []Step
	index int
	held  int
}

func NewScript(steps ...Step) *Script {
	return &Script{steps: steps}
}

func (s *Script) Next() (Intent, bool) {
	for s.index < len(s.steps) {
		step := s.steps[s.index]
		if s.held < step.Ticks {
			s.held++
			return step.Intent, true
		}
		s.index++
		s.held = 0
	}
	return Intent{}, false
}

func (s *Script) Rewind() {
	s.index = 0
	s.held = 0
}
