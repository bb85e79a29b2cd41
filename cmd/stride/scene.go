package main

import (
	"log/slog"

	"github.com/Versifine/stride/internal/chipmunk"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func buildVoxel(cfg *config.Config) (*physics.Grid, *physics.Body) {
	grid := physics.NewGrid()
	for _, b := range cfg.Scene.Blocks {
		grid.Fill(
			physics.BlockPos{X: b.From[0], Y: b.From[1], Z: b.From[2]},
			physics.BlockPos{X: b.To[0], Y: b.To[1], Z: b.To[2]},
			b.Surface,
		)
	}
	if grid.Len() == 0 {
		slog.Warn("Voxel scene has no blocks; the character will fall forever")
	}

	body := physics.NewBody(grid, cfg.Simulation.Gravity, physics.DefaultBodyWidth, physics.DefaultBodyHeight)
	body.Teleport(cfg.Simulation.Spawn)
	if grid.CollidesWith(body.AABB()) {
		slog.Warn("Voxel spawn overlaps solid blocks; the body may be stuck", "spawn", cfg.Simulation.Spawn)
	}
	return grid, body
}

func buildChipmunk(cfg *config.Config) *chipmunk.World {
	world := chipmunk.NewWorld(cfg.Simulation.Gravity, cfg.Simulation.Radius, cfg.Simulation.Spawn)
	for _, s := range cfg.Scene.Segments {
		world.AddSegment(vec(s.A), vec(s.B), s.Radius, s.Surface)
	}
	for _, b := range cfg.Scene.Boxes {
		world.AddBox(vec(b.Min), vec(b.Max), b.Surface)
	}
	if len(cfg.Scene.Segments)+len(cfg.Scene.Boxes) == 0 {
		slog.Warn("Chipmunk scene has no geometry; the character will fall forever")
	}
	return world
}

func vec(v mgl64.Vec2) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), v.Y(), 0}
}
