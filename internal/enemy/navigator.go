package enemy

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/felixgeelhaar/statekit"

	"emberfall/server/internal/nav"
	"emberfall/server/internal/telemetry"
	"emberfall/server/internal/world"
)

// Oracle is the pathfinding collaborator. Calls are synchronous and bounded
// by the iteration cap in the request options.
type Oracle interface {
	FindPath(start, goal world.Vec2, opts nav.Options) ([]world.Vec2, bool)
	FindAlternatePath(start, goal world.Vec2, opts nav.Options) ([]world.Vec2, world.Vec2, bool)
	ValidatePath(path []world.Vec2, capability world.Capability) bool
}

// Collider is the collision and terrain-effects collaborator.
type Collider interface {
	CanOccupy(capability world.Capability, pos world.Vec2) bool
	SmoothedSpeed(current, target, dt float64) float64
}

// StateTag is the high-level per-tick state exposed to combat and rendering.
type StateTag string

const (
	StateMoving     StateTag = "moving"
	StateAttacking  StateTag = "attacking"
	StateRecovering StateTag = "recovering"
)

// TickResult is what one navigation update hands back to the caller: the
// velocity to integrate, the state tag, and the resolved target.
type TickResult struct {
	Velocity world.Vec2
	State    StateTag
	Target   TargetRef
}

// Navigator drives the navigation core for every enemy each tick. The
// position cache is the only shared mutable state; everything else is owned
// by the enemy being updated.
type Navigator struct {
	grid       *world.Grid
	oracle     Oracle
	collider   Collider
	cache      *PositionCache
	counters   *telemetry.NavCounters
	rng        *rand.Rand
	log        *bolt.Logger
	machineCfg *statekit.MachineConfig[*machineContext]
}

// NewNavigator wires the navigation core. The cache is injected so its
// lifetime (one simulation session, shared by all enemies) is explicit.
func NewNavigator(grid *world.Grid, oracle Oracle, collider Collider, cache *PositionCache, counters *telemetry.NavCounters, rng *rand.Rand, logger *bolt.Logger) (*Navigator, error) {
	if cache == nil {
		cache = NewPositionCache()
	}
	if counters == nil {
		counters = telemetry.NewNavCounters()
	}
	cfg, err := newRecoveryMachineConfig()
	if err != nil {
		return nil, fmt.Errorf("build recovery machine: %w", err)
	}
	return &Navigator{
		grid:       grid,
		oracle:     oracle,
		collider:   collider,
		cache:      cache,
		counters:   counters,
		rng:        rng,
		log:        logger,
		machineCfg: cfg,
	}, nil
}

// Register attaches the recovery state machine to an enemy. Must be called
// once before the first Update.
func (n *Navigator) Register(e *Enemy) {
	if n == nil || e == nil {
		return
	}
	e.Recovery.machine = newRecoveryMachine(n.machineCfg, e, n)
}

// Cache exposes the shared problematic-position cache.
func (n *Navigator) Cache() *PositionCache {
	if n == nil {
		return nil
	}
	return n.cache
}

// Update runs one navigation tick for one enemy: speed resolution, stuck
// inspection, recovery takeover, target selection, and path following. The
// returned velocity is applied by the caller's integrator.
func (n *Navigator) Update(e *Enemy, structures []Structure, opponent *Opponent, dt float64) TickResult {
	if n == nil || e == nil || !e.Alive || dt <= 0 {
		return TickResult{State: StateMoving}
	}
	if e.Recovery.machine == nil {
		// Contract defect: Update before Register.
		n.log.Error().Str("enemy", e.ID).Msg("navigation update on unregistered enemy")
		return TickResult{State: StateMoving}
	}

	n.resolveSpeed(e, dt)
	e.History.Push(e.Pos, e.Velocity, dt)

	if e.Recovery.machine.Recovering() {
		res := n.tickRecovery(e, dt)
		e.Velocity = res.Velocity
		return res
	}

	if n.checkStuck(e, dt) {
		res := n.handleStuck(e, dt)
		e.Velocity = res.Velocity
		return res
	}

	target := SelectTarget(e, structures, opponent)
	if target.Kind == TargetNone {
		e.Velocity = world.Vec2{}
		return TickResult{State: StateMoving}
	}

	if world.Dist(e.Pos, target.Pos) <= e.AttackRange {
		// Standing at attack range is intentional idling, not a stuck
		// symptom; drop the approach path and its accumulated evidence.
		e.Path.Clear()
		e.Recovery.stuckSeconds = 0
		e.Velocity = world.Vec2{}
		return TickResult{State: StateAttacking, Target: target}
	}

	velocity, ok := n.followPath(e, target, dt)
	if !ok {
		// Transient pathing failure: stay idle and let the stuck machinery
		// and the next recalculation window sort it out.
		e.Velocity = world.Vec2{}
		return TickResult{State: StateMoving, Target: target}
	}

	e.Velocity = velocity
	e.Facing = deriveFacing(velocity.X, velocity.Y, e.Facing)
	return TickResult{State: StateMoving, Velocity: velocity, Target: target}
}

// resolveSpeed moves the enemy's current speed toward base speed scaled by
// the terrain multiplier under it. Without a grid the speed passes through
// unmodified.
func (n *Navigator) resolveSpeed(e *Enemy, dt float64) {
	if n.grid == nil {
		e.CurrentSpeed = e.BaseSpeed
		e.appliedMultiplier = 1
		return
	}
	multiplier := n.grid.SpeedMultiplierAt(e.Pos, e.Capability)
	target := e.BaseSpeed * multiplier
	e.CurrentSpeed = n.collider.SmoothedSpeed(e.CurrentSpeed, target, dt)
	e.appliedMultiplier = multiplier
}

func (n *Navigator) randomHeading() world.Vec2 {
	angle := n.rng.Float64() * 2 * math.Pi
	return world.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
}
