// Package enemy implements the navigation and failure-recovery core for
// hostile units: terrain-aware speed, target selection, path following with
// staleness control, statistical stuck detection, and a tiered recovery
// state machine ending in a last-resort teleport.
package enemy

import (
	"github.com/google/uuid"

	"emberfall/server/internal/world"
)

// Behavior is the targeting policy of an enemy.
type Behavior uint8

const (
	BehaviorStructureFocused Behavior = iota
	BehaviorPlayerFocused
	BehaviorOpportunist
)

// String returns the lowercase policy name.
func (b Behavior) String() string {
	switch b {
	case BehaviorStructureFocused:
		return "structure-focused"
	case BehaviorPlayerFocused:
		return "player-focused"
	case BehaviorOpportunist:
		return "opportunist"
	default:
		return "unknown"
	}
}

// DefaultDetectRange is the structure-detection range a policy ships with.
// Opportunists see farther; that tuning is the whole behavioral difference
// between them and structure-focused units.
func (b Behavior) DefaultDetectRange() float64 {
	switch b {
	case BehaviorOpportunist:
		return 480
	case BehaviorPlayerFocused:
		return 360
	default:
		return 320
	}
}

// Config describes a new enemy.
type Config struct {
	Pos         world.Vec2
	BaseSpeed   float64
	Capability  world.Capability
	Behavior    Behavior
	AttackRange float64
	// DetectRange zero selects the behavior's default tuning.
	DetectRange float64
}

// Enemy is one navigating unit. All navigation state (path, motion history,
// recovery) is owned exclusively by the enemy; only the problematic-position
// cache is shared.
type Enemy struct {
	ID          string
	Pos         world.Vec2
	Velocity    world.Vec2
	Facing      string
	BaseSpeed   float64
	CurrentSpeed float64
	Capability  world.Capability
	Behavior    Behavior
	AttackRange float64
	DetectRange float64
	Alive       bool

	History  *MotionHistory
	Path     PathState
	Recovery RecoveryState

	// appliedMultiplier records the terrain factor used on the last tick,
	// for telemetry only.
	appliedMultiplier float64
}

// New constructs an enemy with defaults applied. The recovery machine is
// attached when the enemy is registered with a Navigator.
func New(cfg Config) *Enemy {
	detect := cfg.DetectRange
	if detect <= 0 {
		detect = cfg.Behavior.DefaultDetectRange()
	}
	attack := cfg.AttackRange
	if attack <= 0 {
		attack = 40
	}
	return &Enemy{
		ID:           uuid.NewString(),
		Pos:          cfg.Pos,
		Facing:       FacingDown,
		BaseSpeed:    cfg.BaseSpeed,
		CurrentSpeed: cfg.BaseSpeed,
		Capability:   cfg.Capability,
		Behavior:     cfg.Behavior,
		AttackRange:  attack,
		DetectRange:  detect,
		Alive:        true,
		History:      NewMotionHistory(),
	}
}

// AppliedMultiplier reports the terrain speed factor applied on the last
// tick.
func (e *Enemy) AppliedMultiplier() float64 {
	if e == nil {
		return 0
	}
	return e.appliedMultiplier
}

// Facing direction names shared with the debug feed.
const (
	FacingUp    = "up"
	FacingDown  = "down"
	FacingLeft  = "left"
	FacingRight = "right"
)

// deriveFacing picks the facing direction that best matches a movement
// vector, keeping the fallback when there is no movement.
func deriveFacing(dx, dy float64, fallback string) string {
	if dx == 0 && dy == 0 {
		return fallback
	}
	if absFloat(dx) > absFloat(dy) {
		if dx > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if dy > 0 {
		return FacingDown
	}
	return FacingUp
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
