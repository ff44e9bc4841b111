package fsm

import (
	"fmt"
	"sync"
)

type State string
type Event string

// Handler is executed after a transition has been applied.
type Handler func(event Event, args ...interface{}) error

// Observer is notified of every applied transition.
type Observer func(from, to State, event Event)

type edge struct {
	to      State
	handler Handler
}

// StateMachine is a table-driven state machine. Transitions are declared up
// front; firing an undeclared event or firing from a terminal state fails.
type StateMachine struct {
	mu       sync.RWMutex
	current  State
	edges    map[State]map[Event]edge
	terminal map[State]bool
	history  []State
	observer Observer
}

func New(initial State) *StateMachine {
	return &StateMachine{
		current:  initial,
		edges:    make(map[State]map[Event]edge),
		terminal: make(map[State]bool),
		history:  []State{initial},
	}
}

func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// History returns every state entered so far, starting with the initial one.
func (sm *StateMachine) History() []State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]State, len(sm.history))
	copy(out, sm.history)
	return out
}

func (sm *StateMachine) AddTransition(from, to State, event Event, callback Handler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.edges[from]; !ok {
		sm.edges[from] = make(map[Event]edge)
	}
	sm.edges[from][event] = edge{to: to, handler: callback}
}

// SetTerminal marks states that accept no further events.
func (sm *StateMachine) SetTerminal(states ...State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, s := range states {
		sm.terminal[s] = true
	}
}

// IsTerminal reports whether the current state is terminal.
func (sm *StateMachine) IsTerminal() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.terminal[sm.current]
}

// OnTransition installs an observer called after each transition.
func (sm *StateMachine) OnTransition(o Observer) {
	sm.mu.Lock()
	sm.observer = o
	sm.mu.Unlock()
}

// Can reports whether event is accepted in the current state.
func (sm *StateMachine) Can(event Event) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.terminal[sm.current] {
		return false
	}
	_, ok := sm.edges[sm.current][event]
	return ok
}

// Fire triggers a state transition. It is thread-safe. The state is updated
// before the handler runs, and the lock is released first, so handlers may
// fire further events.
func (sm *StateMachine) Fire(event Event, args ...interface{}) error {
	sm.mu.Lock()
	from := sm.current
	if sm.terminal[from] {
		sm.mu.Unlock()
		return fmt.Errorf("state %s is terminal, cannot handle %s", from, event)
	}
	e, ok := sm.edges[from][event]
	if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("invalid transition from %s via %s", from, event)
	}
	sm.current = e.to
	sm.history = append(sm.history, e.to)
	observer := sm.observer
	sm.mu.Unlock()

	if observer != nil {
		observer(from, e.to, event)
	}
	if e.handler != nil {
		return e.handler(event, args...)
	}
	return nil
}

// Personal.AI order the ending
