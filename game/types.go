// Package game is the snake simulation core: a tick-driven engine that owns
// the snake, the food set, the pending input queue and the game status.
// Engine methods are not safe for concurrent use; hosts serialise calls.
package game

import (
	"fmt"
	"strings"
)

// Cell is a grid coordinate. X grows to the right, Y grows downwards.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the neighbour of c in direction d.
func (c Cell) Add(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Direction is one of the four unit moves. The zero value is not a direction.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Directions lists the four moves in a stable order.
var Directions = [...]Direction{Up, Down, Left, Right}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Delta returns the unit vector of d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection accepts the direction names and the w/a/s/d keys.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, true
	case "down", "s":
		return Down, true
	case "left", "a":
		return Left, true
	case "right", "d":
		return Right, true
	}
	return 0, false
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("unknown direction %q", text)
	}
	*d = parsed
	return nil
}

// Status is the phase of a game session.
type Status int

const (
	NotStarted Status = iota
	Running
	GameOver
	Win
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	case Win:
		return "win"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether s ends a session.
func (s Status) Terminal() bool {
	return s == GameOver || s == Win
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{NotStarted, Running, GameOver, Win} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// DirectionBetween returns the direction that moves from onto to when the
// two cells are neighbours.
func DirectionBetween(from, to Cell) (Direction, bool) {
	for _, d := range Directions {
		if from.Add(d) == to {
			return d, true
		}
	}
	return 0, false
}
