package enemy

import "emberfall/server/internal/world"

// PlayerDiversionMargin widens the attack range when a player-focused enemy
// decides whether a structure is close enough to engage immediately instead
// of chasing the opponent.
const PlayerDiversionMargin = 1.2

// TargetKind discriminates the target union.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetStructure
	TargetOpponent
)

// String returns the lowercase kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetStructure:
		return "structure"
	case TargetOpponent:
		return "opponent"
	default:
		return "none"
	}
}

// TargetRef is a per-tick resolved handle to either a structure or the
// mobile opponent. It is never retained across ticks; selection re-resolves
// it so a dead target is dropped the tick it dies.
type TargetRef struct {
	Kind     TargetKind
	ID       string
	Pos      world.Vec2
	Velocity world.Vec2
}

// Structure is the per-tick view of a rival structure.
type Structure struct {
	ID    string
	Pos   world.Vec2
	Alive bool
}

// Opponent is the per-tick view of the mobile opponent.
type Opponent struct {
	ID       string
	Pos      world.Vec2
	Velocity world.Vec2
	Alive    bool
}

// SelectTarget resolves the enemy's current goal from its behavior policy.
// Nearest is strict Euclidean distance with ties broken by iteration order
// (first encountered wins) so selection is deterministic.
func SelectTarget(e *Enemy, structures []Structure, opponent *Opponent) TargetRef {
	if e == nil {
		return TargetRef{}
	}

	nearest, nearestDist, found := nearestStructure(e, structures)

	opponentAlive := opponent != nil && opponent.Alive
	opponentRef := TargetRef{}
	if opponentAlive {
		opponentRef = TargetRef{
			Kind:     TargetOpponent,
			ID:       opponent.ID,
			Pos:      opponent.Pos,
			Velocity: opponent.Velocity,
		}
	}

	switch e.Behavior {
	case BehaviorPlayerFocused:
		// Divert to a structure only when it is close enough that engagement
		// is immediate; otherwise a nearly-melee structure would be ignored
		// while chasing a farther-moving opponent.
		if found && nearestDist <= e.AttackRange*PlayerDiversionMargin {
			return structureRef(nearest)
		}
		if opponentAlive {
			return opponentRef
		}
		if found {
			return structureRef(nearest)
		}
	default:
		// StructureFocused and Opportunist share the same precedence; the
		// opportunist differs only in its configured detection range.
		if found {
			return structureRef(nearest)
		}
		if opponentAlive {
			return opponentRef
		}
	}
	return TargetRef{}
}

func structureRef(s Structure) TargetRef {
	return TargetRef{Kind: TargetStructure, ID: s.ID, Pos: s.Pos}
}

func nearestStructure(e *Enemy, structures []Structure) (Structure, float64, bool) {
	best := Structure{}
	bestDist := 0.0
	found := false
	for _, s := range structures {
		if !s.Alive {
			continue
		}
		dist := world.Dist(e.Pos, s.Pos)
		if dist > e.DetectRange {
			continue
		}
		if !found || dist < bestDist {
			best = s
			bestDist = dist
			found = true
		}
	}
	return best, bestDist, found
}
