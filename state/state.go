package state

import (
	"errors"
	"sync"
)

// State is a node of a Machine. OnEnter and OnExit run while the machine
// holds its lock, so they must not call back into the machine.
type State interface {
	OnEnter()
	OnExit()
	GetID() string
}

// StateMachine 状态机接口
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(from State, to State, condition func() bool) error
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Machine only follows transitions that were registered with AddTransition.
type Machine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	mutex        sync.RWMutex
}

func NewMachine(initialState State) *Machine {
	machine := &Machine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

func (sm *Machine) ChangeState(newState State) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	conditions, exists := sm.transitions[sm.currentState.GetID()]
	if !exists {
		return ErrTransitionNotAllowed
	}
	condition, exists := conditions[newState.GetID()]
	if !exists {
		return ErrTransitionNotAllowed
	}
	if condition != nil && !condition() {
		return ErrTransitionNotAllowed
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

// CanChangeState reports whether ChangeState(to) would succeed right now.
func (sm *Machine) CanChangeState(to State) bool {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	condition, exists := sm.transitions[sm.currentState.GetID()][to.GetID()]
	if !exists {
		return false
	}
	return condition == nil || condition()
}

func (sm *Machine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

// AddTransition registers from -> to. A nil condition always allows it.
func (sm *Machine) AddTransition(from State, to State, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	fromID := from.GetID()
	toID := to.GetID()

	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}
