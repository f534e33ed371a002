package game

import "fmt"

type EventKind int

const (
	EventStarted EventKind = iota
	EventTurn
	EventFoodEaten
	EventCollision
	EventGameOver
	EventWin
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTurn:
		return "turn"
	case EventFoodEaten:
		return "food_eaten"
	case EventCollision:
		return "collision"
	case EventGameOver:
		return "game_over"
	case EventWin:
		return "win"
	}
	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for v := EventStarted; v <= EventWin; v++ {
		if v.String() == string(text) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is a side-effect notification for sound and HUD collaborators.
type Event struct {
	Kind      EventKind `json:"kind"`
	Tick      uint64    `json:"tick"`
	Heading   Direction `json:"heading"`
	Score     int       `json:"score"`
	Collision Collision `json:"collision,omitempty"`
	Food      *Food     `json:"food,omitempty"`
}

// Listener receives engine events synchronously from inside Tick and
// Submit. Implementations must return quickly and must not call back into
// the engine.
type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}
