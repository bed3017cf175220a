// Package telemetry collects navigation counters. Counters are atomic so a
// partitioned-parallel update loop can record without locking.
package telemetry

import "sync/atomic"

// NavCounters aggregates navigation events across all enemies.
type NavCounters struct {
	pathRequests     atomic.Uint64
	pathFailures     atomic.Uint64
	recoveries       atomic.Uint64
	teleportAttempts atomic.Uint64
	teleports        atomic.Uint64
	teleportFailures atomic.Uint64
}

// NavSnapshot is the JSON view of the counters.
type NavSnapshot struct {
	PathRequests     uint64 `json:"pathRequests"`
	PathFailures     uint64 `json:"pathFailures"`
	Recoveries       uint64 `json:"recoveries"`
	TeleportAttempts uint64 `json:"teleportAttempts"`
	Teleports        uint64 `json:"teleports"`
	TeleportFailures uint64 `json:"teleportFailures"`
}

// NewNavCounters returns zeroed counters.
func NewNavCounters() *NavCounters {
	return &NavCounters{}
}

// RecordPathRequest notes one oracle request.
func (c *NavCounters) RecordPathRequest() {
	if c == nil {
		return
	}
	c.pathRequests.Add(1)
}

// RecordPathFailure notes a request that exhausted every fallback.
func (c *NavCounters) RecordPathFailure() {
	if c == nil {
		return
	}
	c.pathFailures.Add(1)
}

// RecordRecovery notes one recovery episode entry.
func (c *NavCounters) RecordRecovery() {
	if c == nil {
		return
	}
	c.recoveries.Add(1)
}

// RecordTeleportAttempt notes one emergency teleport scan.
func (c *NavCounters) RecordTeleportAttempt() {
	if c == nil {
		return
	}
	c.teleportAttempts.Add(1)
}

// RecordTeleport notes a successful emergency teleport.
func (c *NavCounters) RecordTeleport() {
	if c == nil {
		return
	}
	c.teleports.Add(1)
}

// RecordTeleportFailure notes a teleport scan that found no landing cell.
func (c *NavCounters) RecordTeleportFailure() {
	if c == nil {
		return
	}
	c.teleportFailures.Add(1)
}

// Snapshot reads every counter once.
func (c *NavCounters) Snapshot() NavSnapshot {
	if c == nil {
		return NavSnapshot{}
	}
	return NavSnapshot{
		PathRequests:     c.pathRequests.Load(),
		PathFailures:     c.pathFailures.Load(),
		Recoveries:       c.recoveries.Load(),
		TeleportAttempts: c.teleportAttempts.Load(),
		Teleports:        c.teleports.Load(),
		TeleportFailures: c.teleportFailures.Load(),
	}
}
