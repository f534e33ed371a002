package config

import (
	"fmt"
	"time"

	"github.com/wfunc/snake/game"
)

// Normalize clamps every out-of-range setting to the nearest legal value
// and returns a description of each correction.
func (g *GameConfig) Normalize() []string {
	var fixes []string
	fix := func(format string, args ...interface{}) {
		fixes = append(fixes, fmt.Sprintf(format, args...))
	}

	if g.Width < 1 {
		fix("width %d raised to 1", g.Width)
		g.Width = 1
	}
	if g.Height < 1 {
		fix("height %d raised to 1", g.Height)
		g.Height = 1
	}
	if g.Width*g.Height < 2 {
		fix("board %dx%d cannot hold a snake, width raised to 2", g.Width, g.Height)
		g.Width = 2
	}
	area := g.Width * g.Height

	if g.FoodAmount < 1 {
		fix("food_amount %d raised to 1", g.FoodAmount)
		g.FoodAmount = 1
	} else if g.FoodAmount > area {
		fix("food_amount %d lowered to %d", g.FoodAmount, area)
		g.FoodAmount = area
	}

	if g.TickTimeMS < MinTickTimeMS {
		fix("tick_time_ms %d raised to %d", g.TickTimeMS, MinTickTimeMS)
		g.TickTimeMS = MinTickTimeMS
	} else if g.TickTimeMS > MaxTickTimeMS {
		fix("tick_time_ms %d lowered to %d", g.TickTimeMS, MaxTickTimeMS)
		g.TickTimeMS = MaxTickTimeMS
	}

	snake := toCells(g.Snake)
	if len(g.Snake) == 0 || game.ValidateLayout(g.Width, g.Height, snake) != nil {
		if len(g.Snake) > 0 {
			fix("snake layout %v replaced by the default", snake)
		}
		snake = defaultSnake(g.Width, g.Height)
		g.Snake = toPoints(snake)
	}

	// The heading must not point back into the neck.
	natural, _ := game.DirectionBetween(snake[1], snake[0])
	heading, ok := game.ParseDirection(g.Heading)
	switch {
	case !ok:
		fix("heading %q replaced by %s", g.Heading, natural)
		g.Heading = natural.String()
	case snake[0].Add(heading) == snake[1]:
		fix("heading %s reverses onto the body, replaced by %s", heading, natural)
		g.Heading = natural.String()
	default:
		g.Heading = heading.String()
	}

	food := g.Food[:0:0]
	for _, p := range g.Food {
		if p.X < 0 || p.X >= g.Width || p.Y < 0 || p.Y >= g.Height {
			fix("food cell (%d,%d) outside the board dropped", p.X, p.Y)
			continue
		}
		food = append(food, p)
	}
	g.Food = food

	if g.Seed == 0 {
		g.Seed = uint64(time.Now().UnixNano())
	}
	return fixes
}

// defaultSnake lays a two-cell snake in the middle of the board, heading
// right, or down on a one-column board.
func defaultSnake(width, height int) []game.Cell {
	if width >= 2 {
		return []game.Cell{{X: width / 2, Y: height / 2}, {X: width/2 - 1, Y: height / 2}}
	}
	return []game.Cell{{X: 0, Y: height / 2}, {X: 0, Y: height/2 - 1}}
}

func toPoints(cells []game.Cell) []PointConfig {
	points := make([]PointConfig, 0, len(cells))
	for _, c := range cells {
		points = append(points, PointConfig{X: c.X, Y: c.Y})
	}
	return points
}
