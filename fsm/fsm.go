// Package fsm provides the state machine that drives actor behavior.
// States are registered by name on a Machine; the owning actor pumps the
// machine once per simulation tick and states hand control to each other
// by returning the next state's name.
package fsm

import "log"

// State is a single named behavior node.
//
// Enter receives the name of the state being left ("" on machine start)
// and the params passed to Start or Transition. Update runs once per tick
// with the simulation clock and returns the name of the state to move to,
// or "" (or its own name) to stay. CanBeInterrupted reports whether an
// external transition to next may replace this state; transitions a state
// requests from its own Update bypass that check.
type State interface {
	Name() string
	Enter(prev string, params any)
	Update(now, delta float64) string
	Exit(next string)
	CanBeInterrupted(next string) bool
}

// HistoryLimit caps the number of exited state names a Machine retains.
const HistoryLimit = 16

// Machine owns a set of named states and at most one current state.
// It is not safe for concurrent use; the simulation ticks it from a
// single goroutine.
type Machine struct {
	states  map[string]State
	current State
	elapsed float64
	history []string
}

func NewMachine() *Machine {
	return &Machine{states: map[string]State{}}
}

// AddState registers s under its name. Registering a second state with
// the same name replaces the first.
func (m *Machine) AddState(s State) {
	if m == nil || s == nil || s.Name() == "" {
		return
	}
	m.states[s.Name()] = s
}

// Start enters the named state with no exit of a prior one. Starting an
// unregistered state, or a machine that is already running, is a logged
// no-op.
func (m *Machine) Start(name string, params any) bool {
	if m == nil {
		return false
	}
	if m.current != nil {
		log.Printf("fsm: start %q ignored, machine already in %q", name, m.current.Name())
		return false
	}
	next, ok := m.states[name]
	if !ok {
		log.Printf("fsm: start requested for unknown state %q", name)
		return false
	}
	m.current = next
	m.elapsed = 0
	next.Enter("", params)
	return true
}

// Transition moves the machine to the named state. It fails when the name
// is unregistered, when the target is already current, or when the current
// state refuses the interruption and force is false. On success the current
// state exits, its name is recorded in the history, and the target enters
// with a fresh elapsed clock.
func (m *Machine) Transition(name string, params any, force bool) bool {
	if m == nil {
		return false
	}
	next, ok := m.states[name]
	if !ok {
		log.Printf("fsm: transition requested to unknown state %q", name)
		return false
	}
	prev := ""
	if m.current != nil {
		if m.current.Name() == name {
			return false
		}
		if !force && !m.current.CanBeInterrupted(name) {
			return false
		}
		m.current.Exit(name)
		m.pushHistory(m.current.Name())
		prev = m.current.Name()
	}
	m.current = next
	m.elapsed = 0
	next.Enter(prev, params)
	return true
}

// Update advances the elapsed clock and delegates to the current state.
// A state that returns a different name forces a transition to it.
func (m *Machine) Update(now, delta float64) {
	if m == nil || m.current == nil {
		return
	}
	m.elapsed += delta
	next := m.current.Update(now, delta)
	if next == "" || next == m.current.Name() {
		return
	}
	m.Transition(next, nil, true)
}

// Current returns the name of the current state, or "" before Start.
func (m *Machine) Current() string {
	if m == nil || m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Is reports whether the named state is current.
func (m *Machine) Is(name string) bool {
	return m != nil && m.current != nil && m.current.Name() == name
}

// Elapsed returns milliseconds spent in the current state.
func (m *Machine) Elapsed() float64 {
	if m == nil {
		return 0
	}
	return m.elapsed
}

// Previous returns the most recently exited state name, or "".
func (m *Machine) Previous() string {
	if m == nil || len(m.history) == 0 {
		return ""
	}
	return m.history[len(m.history)-1]
}

// History returns a copy of the exited state names, oldest first.
func (m *Machine) History() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) pushHistory(name string) {
	m.history = append(m.history, name)
	if len(m.history) > HistoryLimit {
		m.history = m.history[len(m.history)-HistoryLimit:]
	}
}
