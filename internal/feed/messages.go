// Package feed defines the wire messages of the websocket debug feed. The
// schema generator under cmd/schema reflects these types.
package feed

import "emberfall/server/internal/telemetry"

// StateMessageType tags a full-state broadcast.
const StateMessageType = "state"

// EnemyView is one enemy's navigation state as broadcast to observers.
type EnemyView struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Facing     string  `json:"facing"`
	State      string  `json:"state"`
	Speed      float64 `json:"speed"`
	Behavior   string  `json:"behavior"`
	Capability string  `json:"capability"`
	TargetKind string  `json:"targetKind,omitempty"`
	TargetID   string  `json:"targetId,omitempty"`
	GoalX      float64 `json:"goalX,omitempty"`
	GoalY      float64 `json:"goalY,omitempty"`
}

// StructureView is one structure's broadcast state.
type StructureView struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alive bool    `json:"alive"`
}

// OpponentView is the mobile opponent's broadcast state.
type OpponentView struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alive bool    `json:"alive"`
}

// StateMessage is one full simulation snapshot.
type StateMessage struct {
	Type       string                `json:"type"`
	Tick       uint64                `json:"tick"`
	ServerTime int64                 `json:"serverTime"`
	Enemies    []EnemyView           `json:"enemies"`
	Structures []StructureView       `json:"structures"`
	Opponent   OpponentView          `json:"opponent"`
	Telemetry  telemetry.NavSnapshot `json:"telemetry"`
}
