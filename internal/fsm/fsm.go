// Package fsm defines the grammar session lifecycle.
package fsm

import "fmt"

type State string

type Event string

const (
	StateUnloaded    State = "unloaded"
	StateLoaded      State = "loaded"
	StateDispatching State = "dispatching"
	StateError       State = "error"
)

const (
	EventLoad     Event = "load"
	EventUnload   Event = "unload"
	EventDispatch Event = "dispatch"
	EventDone     Event = "done"
	EventFail     Event = "fail"
	EventReset    Event = "reset"
)

// Transition returns the state reached from current on event.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateError, nil
	}

	switch current {
	case StateUnloaded:
		switch event {
		case EventLoad:
			return StateLoaded, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateLoaded:
		switch event {
		case EventDispatch:
			return StateDispatching, nil
		case EventUnload:
			return StateUnloaded, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDispatching:
		switch event {
		case EventDone:
			return StateLoaded, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateError:
		switch event {
		case EventReset:
			return StateUnloaded, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
