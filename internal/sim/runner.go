package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
)

const DefaultTickRate = 50

var (
	ErrNoSource    = errors.New("runner has no intent source")
	ErrNoCharacter = errors.New("runner has no character")
)

// Ticker advances a character by one fixed step.
type Ticker interface {
	Tick(intent input.Intent, dt float64) (locomotion.Report, error)
}

// TickFunc observes every completed tick.
type TickFunc func(tick int, intent input.Intent, report locomotion.Report)

// Runner feeds intents from Source into Character at a fixed rate. It stops
// when the source is exhausted, MaxTicks is reached (zero means unlimited) or
// the context is cancelled.
type Runner struct {
	Character Ticker
	Source    input.Source
	TickRate  int
	MaxTicks  int
	OnTick    TickFunc

	ticks int
}

func (r *Runner) dt() float64 {
	rate := r.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return 1 / float64(rate)
}

func (r *Runner) Interval() time.Duration {
	return time.Duration(r.dt() * float64(time.Second))
}

// Ticks reports how many ticks the runner has completed.
func (r *Runner) Ticks() int {
	return r.ticks
}

func (r *Runner) validate() error {
	if r.Character == nil {
		return ErrNoCharacter
	}
	if r.Source == nil {
		return ErrNoSource
	}
	return nil
}

func (r *Runner) done() bool {
	return r.MaxTicks > 0 && r.ticks >= r.MaxTicks
}

// step runs one tick and reports whether the runner should continue.
func (r *Runner) step() (bool, error) {
	if r.done() {
		return false, nil
	}
	intent, ok := r.Source.Next()
	if !ok {
		slog.Info("Intent source exhausted", "ticks", r.ticks)
		return false, nil
	}
	report, err := r.Character.Tick(intent, r.dt())
	if err != nil {
		return false, fmt.Errorf("tick %d: %w", r.ticks+1, err)
	}
	r.ticks++
	if r.OnTick != nil {
		r.OnTick(r.ticks, intent, report)
	}
	return !r.done(), nil
}

// Run ticks in real time until the runner stops.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.validate(); err != nil {
		return err
	}

	ticker := time.NewTicker(r.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			more, err := r.step()
			if err != nil || !more {
				return err
			}
		}
	}
}

// RunFor runs up to n ticks back to back and returns how many ran.
func (r *Runner) RunFor(n int) (int, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	start := r.ticks
	for r.ticks-start < n {
		more, err := r.step()
		if err != nil {
			return r.ticks - start, err
		}
		if !more {
			break
		}
	}
	return r.ticks - start, nil
}
