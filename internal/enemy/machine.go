package enemy

import "github.com/felixgeelhaar/statekit"

// The recovery lifecycle is a two-state statechart. Emergency teleports are
// one-shot transitions resolved within a tick, not a sustained state: when
// the emergency guard rejects a STUCK event the controller teleports instead
// of entering recovery.
const (
	stateMoving     statekit.StateID = "moving"
	stateRecovering statekit.StateID = "recovering"
)

const (
	eventStuck     statekit.EventType = "STUCK"
	eventRecovered statekit.EventType = "RECOVERED"
)

type machineContext struct {
	enemy *Enemy
	nav   *Navigator
}

func newRecoveryMachineConfig() (*statekit.MachineConfig[*machineContext], error) {
	return statekit.NewMachine[*machineContext]("enemy-recovery").
		WithInitial(stateMoving).
		WithContext(&machineContext{}).
		WithAction("beginRecovery", actionBeginRecovery).
		WithAction("finishRecovery", actionFinishRecovery).
		WithGuard("belowEmergencyThreshold", guardBelowEmergencyThreshold).
		State(stateMoving).
		On(eventStuck).Target(stateRecovering).Guard("belowEmergencyThreshold").Do("beginRecovery").
		Done().
		State(stateRecovering).
		On(eventRecovered).Target(stateMoving).Do("finishRecovery").
		Done().
		Build()
}

// Actions receive a pointer to the context; with a pointer context that is a
// double pointer.
func actionBeginRecovery(ctx **machineContext, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	c.nav.beginRecovery(c.enemy)
}

func actionFinishRecovery(ctx **machineContext, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx
	c.nav.finishRecovery(c.enemy)
}

func guardBelowEmergencyThreshold(ctx *machineContext, _ statekit.Event) bool {
	return ctx != nil && ctx.enemy != nil &&
		ctx.enemy.Recovery.EmergencyAttempts < EmergencyAttemptThreshold
}

// recoveryMachine is one enemy's interpreter over the shared machine config.
type recoveryMachine struct {
	interp *statekit.Interpreter[*machineContext]
}

func newRecoveryMachine(cfg *statekit.MachineConfig[*machineContext], e *Enemy, n *Navigator) *recoveryMachine {
	interp := statekit.NewInterpreter(cfg)
	ctx := &machineContext{enemy: e, nav: n}
	interp.UpdateContext(func(c **machineContext) {
		*c = ctx
	})
	interp.Start()
	return &recoveryMachine{interp: interp}
}

// Recovering reports whether the machine is in the recovering state.
func (m *recoveryMachine) Recovering() bool {
	return m != nil && m.interp.Matches(stateRecovering)
}

func (m *recoveryMachine) sendStuck() {
	if m == nil {
		return
	}
	m.interp.Send(statekit.Event{Type: eventStuck})
}

func (m *recoveryMachine) sendRecovered() {
	if m == nil {
		return
	}
	m.interp.Send(statekit.Event{Type: eventRecovered})
}
