package game

// FoodID identifies one food item for its whole lifetime on the board.
type FoodID uint64

type Food struct {
	ID FoodID `json:"id"`
	Cell
}

// crowdedDivisor switches the spawner from rejection sampling to picking
// among enumerated free cells once fewer than area/crowdedDivisor cells
// are free.
const crowdedDivisor = 4

// Spawner keeps the food set topped up on free cells.
type Spawner struct {
	board  *Board
	nextID FoodID
}

func NewSpawner(board *Board) *Spawner {
	return &Spawner{board: board, nextID: 1}
}

// Reset restarts food identifiers.
func (s *Spawner) Reset() {
	s.nextID = 1
}

// Place adds food at c if c is in bounds and free of snake and food.
func (s *Spawner) Place(snake []Cell, food []Food, c Cell) []Food {
	if !s.board.InBounds(c) || containsCell(snake, c) || foodIndex(food, c) >= 0 {
		return food
	}
	return append(food, s.spawn(c))
}

// Replenish returns current plus enough new items to reach
// min(target, area-len(snake)). Existing items are kept as they are.
func (s *Spawner) Replenish(snake []Cell, current []Food, target int) []Food {
	capacity := min(target, s.board.Area()-len(snake))

	out := make([]Food, len(current), max(capacity, len(current)))
	copy(out, current)
	if len(out) >= capacity {
		return out
	}

	occupied := make(map[Cell]struct{}, len(snake)+capacity)
	for _, c := range snake {
		if s.board.InBounds(c) {
			occupied[c] = struct{}{}
		}
	}
	for _, f := range out {
		occupied[f.Cell] = struct{}{}
	}

	for len(out) < capacity {
		free := s.board.Area() - len(occupied)
		if free <= 0 {
			break
		}

		var c Cell
		if free*crowdedDivisor < s.board.Area() {
			cells := s.freeCells(occupied)
			c = cells[s.board.intn(len(cells))]
		} else {
			c = s.board.RandomCell()
			if _, taken := occupied[c]; taken {
				continue
			}
		}

		out = append(out, s.spawn(c))
		occupied[c] = struct{}{}
	}
	return out
}

func (s *Spawner) spawn(c Cell) Food {
	f := Food{ID: s.nextID, Cell: c}
	s.nextID++
	return f
}

func (s *Spawner) freeCells(occupied map[Cell]struct{}) []Cell {
	cells := make([]Cell, 0, s.board.Area()-len(occupied))
	for y := 0; y < s.board.Height; y++ {
		for x := 0; x < s.board.Width; x++ {
			c := Cell{X: x, Y: y}
			if _, taken := occupied[c]; !taken {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

func foodIndex(food []Food, c Cell) int {
	for i, f := range food {
		if f.Cell == c {
			return i
		}
	}
	return -1
}

func containsCell(cells []Cell, c Cell) bool {
	for _, p := range cells {
		if p == c {
			return true
		}
	}
	return false
}
