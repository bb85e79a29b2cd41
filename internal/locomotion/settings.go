package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidSettings = errors.New("invalid locomotion settings")

// Settings is the immutable per-character parameter set.
type Settings struct {
	MaxAcceleration    float64
	MaxAirAcceleration float64
	JumpHeight         float64
	MaxAirJumps        int
	// MaxGroundAngle and MaxStairAngle are in degrees.
	MaxGroundAngle float64
	MaxStairAngle  float64
	MaxSnapSpeed   float64
	ProbeDistance  float64
	ProbeSurfaces  SurfaceSet
	StairsSurfaces SurfaceSet
	Gravity        mgl64.Vec3
}

func DefaultSettings() Settings {
	return Settings{
		MaxAcceleration:    10,
		MaxAirAcceleration: 1,
		JumpHeight:         2,
		MaxAirJumps:        0,
		MaxGroundAngle:     25,
		MaxStairAngle:      50,
		MaxSnapSpeed:       100,
		ProbeDistance:      1,
		ProbeSurfaces:      AllSurfaces(),
		StairsSurfaces:     AllSurfaces(),
		Gravity:            mgl64.Vec3{0, -9.81, 0},
	}
}

func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.MaxAcceleration >= 0, "max acceleration %v is negative", s.MaxAcceleration)
	check(s.MaxAirAcceleration >= 0, "max air acceleration %v is negative", s.MaxAirAcceleration)
	check(s.JumpHeight >= 0, "jump height %v is negative", s.JumpHeight)
	check(s.MaxAirJumps >= 0, "max air jumps %d is negative", s.MaxAirJumps)
	check(inDegreeRange(s.MaxGroundAngle), "max ground angle %v outside [0,90]", s.MaxGroundAngle)
	check(inDegreeRange(s.MaxStairAngle), "max stair angle %v outside [0,90]", s.MaxStairAngle)
	check(s.MaxSnapSpeed >= 0, "max snap speed %v is negative", s.MaxSnapSpeed)
	check(s.ProbeDistance >= 0, "probe distance %v is negative", s.ProbeDistance)
	check(s.Gravity.Y() <= 0, "gravity y %v must point down", s.Gravity.Y())

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
}

func inDegreeRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 90
}

// minDot converts a maximum slope angle into the smallest acceptable normal.y.
func minDot(degrees float64) float64 {
	return math.Cos(mgl64.DegToRad(degrees))
}
