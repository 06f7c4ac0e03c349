package checkout

import "fmt"

// State estado de un intento de checkout. Sólo existe en memoria.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateReadingCashRegister
	StateCommitting
	StateRejected
	StateUnavailable
	StateFailed
	StateCommitted
)

var stateNames = [...]string{"idle", "validating", "reading_cash_register", "committing", "rejected", "unavailable", "failed", "committed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal indica un estado final del intento (antes de volver a Idle).
func (s State) Terminal() bool {
	switch s {
	case StateRejected, StateUnavailable, StateFailed, StateCommitted:
		return true
	}
	return false
}

// Failed sólo sale de Committing, salvo por errores inesperados que pueden cortar cualquier fase activa.
var transitions = map[State][]State{
	StateIdle:                {StateValidating},
	StateValidating:          {StateRejected, StateReadingCashRegister, StateFailed},
	StateReadingCashRegister: {StateUnavailable, StateCommitting, StateFailed},
	StateCommitting:          {StateFailed, StateCommitted},
	StateRejected:            {StateIdle},
	StateUnavailable:         {StateIdle},
	StateFailed:              {StateIdle},
	StateCommitted:           {StateIdle},
}

// CanTransition indica si from -> to es legal.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// machine registra el estado de un intento y avisa a observe en cada cambio.
type machine struct {
	state   State
	observe func(State)
}

func (m *machine) to(next State) {
	if !CanTransition(m.state, next) {
		panic(fmt.Sprintf("checkout: transición ilegal %s -> %s", m.state, next))
	}
	m.state = next
	if m.observe != nil {
		m.observe(next)
	}
}
