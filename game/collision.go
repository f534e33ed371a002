package game

import "fmt"

// Collision is the result of checking a candidate snake.
type Collision int

const (
	NoCollision Collision = iota
	WallCollision
	SelfCollision
)

func (c Collision) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	}
	return "none"
}

func (c Collision) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Collision) UnmarshalText(text []byte) error {
	for _, v := range []Collision{NoCollision, WallCollision, SelfCollision} {
		if v.String() == string(text) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown collision %q", text)
}

type Detector struct {
	board *Board
}

func NewDetector(board *Board) *Detector {
	return &Detector{board: board}
}

// Detect checks the head of an already moved snake against the walls and
// against every other segment.
func (d *Detector) Detect(snake []Cell) Collision {
	if len(snake) == 0 {
		return NoCollision
	}
	head := snake[0]
	if !d.board.InBounds(head) {
		return WallCollision
	}
	if containsCell(snake[1:], head) {
		return SelfCollision
	}
	return NoCollision
}
