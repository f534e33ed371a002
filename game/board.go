package game

import (
	"golang.org/x/exp/rand"
)

// Board is the fixed playing field. Its only state is the random source
// used to sample cells.
type Board struct {
	Width  int
	Height int
	rng    *rand.Rand
}

func NewBoard(width, height int, seed uint64) *Board {
	return &Board{
		Width:  width,
		Height: height,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (b *Board) Area() int {
	return b.Width * b.Height
}

func (b *Board) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// RandomCell samples a cell uniformly. Callers filter occupied cells.
func (b *Board) RandomCell() Cell {
	return Cell{
		X: b.rng.Intn(b.Width),
		Y: b.rng.Intn(b.Height),
	}
}

// Reseed restarts the random sequence.
func (b *Board) Reseed(seed uint64) {
	b.rng.Seed(seed)
}

func (b *Board) intn(n int) int {
	return b.rng.Intn(n)
}
