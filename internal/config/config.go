package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	BackendVoxel    = "voxel"
	BackendChipmunk = "chipmunk"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Scene      SceneConfig      `yaml:"scene"`
	Script     []StepConfig     `yaml:"script"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimulationConfig struct {
	Backend  string     `yaml:"backend"`
	TickRate int        `yaml:"tick_rate"`
	Gravity  mgl64.Vec3 `yaml:"gravity"`
	// Ticks limits a headless run; zero runs until the script ends.
	Ticks  int        `yaml:"ticks"`
	Spawn  mgl64.Vec3 `yaml:"spawn"`
	Radius float64    `yaml:"radius"`
}

type LocomotionConfig struct {
	WalkingSpeed       float64               `yaml:"walking_speed"`
	RunningSpeed       float64               `yaml:"running_speed"`
	PeakingSpeed       float64               `yaml:"peaking_speed"`
	SpeedBlend         time.Duration         `yaml:"speed_blend"`
	MaxAcceleration    float64               `yaml:"max_acceleration"`
	MaxAirAcceleration float64               `yaml:"max_air_acceleration"`
	JumpHeight         float64               `yaml:"jump_height"`
	MaxAirJumps        int                   `yaml:"max_air_jumps"`
	MaxGroundAngle     float64               `yaml:"max_ground_angle"`
	MaxStairAngle      float64               `yaml:"max_stair_angle"`
	MaxSnapSpeed       float64               `yaml:"max_snap_speed"`
	ProbeDistance      float64               `yaml:"probe_distance"`
	ProbeSurfaces      locomotion.SurfaceSet `yaml:"probe_surfaces"`
	StairsSurfaces     locomotion.SurfaceSet `yaml:"stairs_surfaces"`
}

// SceneConfig is the static geometry. Blocks feed the voxel backend,
// segments and boxes the chipmunk backend.
type SceneConfig struct {
	Blocks   []BlockConfig   `yaml:"blocks"`
	Segments []SegmentConfig `yaml:"segments"`
	Boxes    []BoxConfig     `yaml:"boxes"`
}

// BlockConfig fills the inclusive block range From..To.
type BlockConfig struct {
	From    [3]int             `yaml:"from"`
	To      [3]int             `yaml:"to"`
	Surface locomotion.Surface `yaml:"surface"`
}

type SegmentConfig struct {
	A       mgl64.Vec2         `yaml:"a"`
	B       mgl64.Vec2         `yaml:"b"`
	Radius  float64            `yaml:"radius"`
	Surface locomotion.Surface `yaml:"surface"`
}

type BoxConfig struct {
	Min     mgl64.Vec2         `yaml:"min"`
	Max     mgl64.Vec2         `yaml:"max"`
	Surface locomotion.Surface `yaml:"surface"`
}

type StepConfig struct {
	Ticks int        `yaml:"ticks"`
	Move  mgl64.Vec2 `yaml:"move"`
	Yaw   float64    `yaml:"yaw"`
	Jump  bool       `yaml:"jump"`
	Run   bool       `yaml:"run"`
	Peak  bool       `yaml:"peak"`
}

// Default returns the configuration used for every key a file leaves out.
func Default() *Config {
	s := locomotion.DefaultSettings()
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Simulation: SimulationConfig{
			Backend:  BackendVoxel,
			TickRate: 50,
			Gravity:  s.Gravity,
		},
		Locomotion: LocomotionConfig{
			WalkingSpeed:       10,
			RunningSpeed:       10,
			PeakingSpeed:       10,
			MaxAcceleration:    s.MaxAcceleration,
			MaxAirAcceleration: s.MaxAirAcceleration,
			JumpHeight:         s.JumpHeight,
			MaxAirJumps:        s.MaxAirJumps,
			MaxGroundAngle:     s.MaxGroundAngle,
			MaxStairAngle:      s.MaxStairAngle,
			MaxSnapSpeed:       s.MaxSnapSpeed,
			ProbeDistance:      s.ProbeDistance,
			ProbeSurfaces:      s.ProbeSurfaces,
			StairsSurfaces:     s.StairsSurfaces,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Simulation.Backend {
	case BackendVoxel, BackendChipmunk:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Simulation.Backend))
	}
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate %d must be positive", c.Simulation.TickRate))
	}
	if c.Simulation.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks %d is negative", c.Simulation.Ticks))
	}
	if c.Locomotion.SpeedBlend < 0 {
		errs = append(errs, fmt.Errorf("speed blend %v is negative", c.Locomotion.SpeedBlend))
	}
	for i, step := range c.Script {
		if step.Ticks <= 0 {
			errs = append(errs, fmt.Errorf("script step %d: ticks %d must be positive", i, step.Ticks))
		}
	}
	if err := c.Settings().Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// Settings converts the locomotion section into controller settings.
func (c *Config) Settings() locomotion.Settings {
	l := c.Locomotion
	return locomotion.Settings{
		MaxAcceleration:    l.MaxAcceleration,
		MaxAirAcceleration: l.MaxAirAcceleration,
		JumpHeight:         l.JumpHeight,
		MaxAirJumps:        l.MaxAirJumps,
		MaxGroundAngle:     l.MaxGroundAngle,
		MaxStairAngle:      l.MaxStairAngle,
		MaxSnapSpeed:       l.MaxSnapSpeed,
		ProbeDistance:      l.ProbeDistance,
		ProbeSurfaces:      l.ProbeSurfaces,
		StairsSurfaces:     l.StairsSurfaces,
		Gravity:            c.Simulation.Gravity,
	}
}

func (c *Config) Speeds() input.Speeds {
	return input.Speeds{
		Walking: c.Locomotion.WalkingSpeed,
		Running: c.Locomotion.RunningSpeed,
		Peaking: c.Locomotion.PeakingSpeed,
	}
}

// Steps converts the script section into input steps.
func (c *Config) Steps() []input.Step {
	steps := make([]input.Step, 0, len(c.Script))
	for _, s := range c.Script {
		steps = append(steps, input.Step{
			Ticks: s.Ticks,
			Intent: input.Intent{
				Move: s.Move,
				Yaw:  s.Yaw,
				Jump: s.Jump,
				Run:  s.Run,
				Peak: s.Peak,
			},
		})
	}
	return steps
}
