package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/google/uuid"

	"emberfall/server/internal/config"
	"emberfall/server/internal/enemy"
	"emberfall/server/internal/feed"
	"emberfall/server/internal/nav"
	"emberfall/server/internal/telemetry"
	"emberfall/server/internal/world"
)

const (
	opponentSpeed        = 120.0
	opponentArriveRadius = 12.0
	opponentWanderRadius = 260.0
)

// Simulation owns the world, the enemies, and the scripted opponent, and
// advances everything one fixed step at a time.
type Simulation struct {
	grid      *world.Grid
	collider  *world.Collider
	navigator *enemy.Navigator
	counters  *telemetry.NavCounters
	log       *bolt.Logger
	rng       *rand.Rand

	enemies    []*enemy.Enemy
	structures []enemy.Structure
	opponent   enemy.Opponent

	opponentTarget world.Vec2
	lastResults    map[string]enemy.TickResult
	tick           uint64
}

func newSimulation(cfg config.Config, logger *bolt.Logger) (*Simulation, error) {
	grid := world.GenerateLayout(world.LayoutConfig{
		Cols:      cfg.World.Cols,
		Rows:      cfg.World.Rows,
		CellSize:  cfg.World.CellSize,
		Obstacles: cfg.World.Obstacles,
		Water:     cfg.World.Water,
		Rough:     cfg.World.Rough,
		Roads:     cfg.World.Roads,
		Seed:      cfg.Seed,
	})
	collider := world.NewCollider(grid)
	counters := telemetry.NewNavCounters()
	rng := world.SeedRNG(cfg.Seed + ":sim")

	navigator, err := enemy.NewNavigator(
		grid,
		nav.GridOracle{Grid: grid},
		collider,
		enemy.NewPositionCache(),
		counters,
		rng,
		logger,
	)
	if err != nil {
		return nil, err
	}

	sim := &Simulation{
		grid:        grid,
		collider:    collider,
		navigator:   navigator,
		counters:    counters,
		log:         logger,
		rng:         rng,
		lastResults: make(map[string]enemy.TickResult),
	}
	sim.spawn(cfg)
	return sim, nil
}

func (s *Simulation) spawn(cfg config.Config) {
	for i := 0; i < cfg.Structures; i++ {
		s.structures = append(s.structures, enemy.Structure{
			ID:    uuid.NewString(),
			Pos:   s.randomSpawn(world.CapabilityWalking),
			Alive: true,
		})
	}

	s.opponent = enemy.Opponent{
		ID:    uuid.NewString(),
		Pos:   s.randomSpawn(world.CapabilityWalking),
		Alive: true,
	}
	s.opponentTarget = s.opponent.Pos

	behaviors := []enemy.Behavior{
		enemy.BehaviorStructureFocused,
		enemy.BehaviorPlayerFocused,
		enemy.BehaviorOpportunist,
	}
	capabilities := []world.Capability{
		world.CapabilityWalking,
		world.CapabilityWalking,
		world.CapabilityFlying,
		world.CapabilityAmphibious,
	}
	for i := 0; i < cfg.Enemies; i++ {
		capability := capabilities[i%len(capabilities)]
		e := enemy.New(enemy.Config{
			Pos:        s.randomSpawn(capability),
			BaseSpeed:  100,
			Capability: capability,
			Behavior:   behaviors[i%len(behaviors)],
		})
		s.navigator.Register(e)
		s.enemies = append(s.enemies, e)
	}
}

// randomSpawn samples random cells until it finds one the capability can
// occupy, clear of the world border.
func (s *Simulation) randomSpawn(capability world.Capability) world.Vec2 {
	for attempt := 0; attempt < 256; attempt++ {
		col := 1 + s.rng.Intn(s.grid.Cols()-2)
		row := 1 + s.rng.Intn(s.grid.Rows()-2)
		if s.grid.WalkableFor(col, row, capability) {
			return s.grid.GridToWorld(col, row)
		}
	}
	return world.Vec2{X: s.grid.Width() / 2, Y: s.grid.Height() / 2}
}

// Step advances the simulation one tick.
func (s *Simulation) Step(dt float64) {
	s.tick++
	s.moveOpponent(dt)

	for _, e := range s.enemies {
		result := s.navigator.Update(e, s.structures, &s.opponent, dt)
		e.Pos = s.collider.Step(e.Pos, result.Velocity, e.Capability, dt)
		s.lastResults[e.ID] = result
	}
}

// moveOpponent walks the scripted opponent between random wander targets so
// player-focused enemies have something to chase.
func (s *Simulation) moveOpponent(dt float64) {
	if world.Dist(s.opponent.Pos, s.opponentTarget) < opponentArriveRadius {
		angle := s.rng.Float64() * 2 * math.Pi
		dist := opponentWanderRadius * math.Sqrt(s.rng.Float64())
		s.opponentTarget = s.grid.ClampToWorld(world.Vec2{
			X: s.opponent.Pos.X + math.Cos(angle)*dist,
			Y: s.opponent.Pos.Y + math.Sin(angle)*dist,
		}, world.ActorHalf)
	}
	dir := s.opponentTarget.Sub(s.opponent.Pos).Normalized()
	s.opponent.Velocity = dir.Scale(opponentSpeed)
	s.opponent.Pos = s.collider.Step(s.opponent.Pos, s.opponent.Velocity, world.CapabilityWalking, dt)
}

// snapshot builds the debug-feed view of the current tick.
func (s *Simulation) snapshot() feed.StateMessage {
	enemies := make([]feed.EnemyView, 0, len(s.enemies))
	for _, e := range s.enemies {
		result := s.lastResults[e.ID]
		view := feed.EnemyView{
			ID:         e.ID,
			X:          e.Pos.X,
			Y:          e.Pos.Y,
			Facing:     e.Facing,
			State:      string(result.State),
			Speed:      e.CurrentSpeed,
			Behavior:   e.Behavior.String(),
			Capability: e.Capability.String(),
		}
		if result.Target.Kind != enemy.TargetNone {
			view.TargetKind = result.Target.Kind.String()
			view.TargetID = result.Target.ID
		}
		if len(e.Path.Waypoints) > 0 {
			view.GoalX = e.Path.Goal.X
			view.GoalY = e.Path.Goal.Y
		}
		enemies = append(enemies, view)
	}

	structures := make([]feed.StructureView, 0, len(s.structures))
	for _, st := range s.structures {
		structures = append(structures, feed.StructureView{
			ID:    st.ID,
			X:     st.Pos.X,
			Y:     st.Pos.Y,
			Alive: st.Alive,
		})
	}

	return feed.StateMessage{
		Type:       feed.StateMessageType,
		Tick:       s.tick,
		ServerTime: time.Now().UnixMilli(),
		Enemies:    enemies,
		Structures: structures,
		Opponent: feed.OpponentView{
			ID:    s.opponent.ID,
			X:     s.opponent.Pos.X,
			Y:     s.opponent.Pos.Y,
			Alive: s.opponent.Alive,
		},
		Telemetry: s.counters.Snapshot(),
	}
}
