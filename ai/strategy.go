// Package ai provides move providers that drive a snake through the same
// input path a player uses.
package ai

import (
	"github.com/wfunc/snake/game"
)

// Strategy picks the next direction to submit from a read-only snapshot.
type Strategy interface {
	NextMove(snap game.Snapshot) game.Direction
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(snap game.Snapshot) game.Direction

func (f StrategyFunc) NextMove(snap game.Snapshot) game.Direction {
	return f(snap)
}

// Greedy steps towards the nearest food while avoiding moves that would end
// the game on the next tick. It looks one move ahead only.
type Greedy struct{}

func (Greedy) NextMove(snap game.Snapshot) game.Direction {
	if len(snap.Snake) < 2 {
		return snap.Heading
	}
	head := snap.Snake[0]

	// The tail leaves its cell on a normal move.
	blocked := make(map[game.Cell]bool, len(snap.Snake))
	for _, c := range snap.Snake[:len(snap.Snake)-1] {
		blocked[c] = true
	}

	best := game.Direction(0)
	bestDist := -1
	for _, d := range preferredOrder(snap.Heading) {
		next := head.Add(d)
		if next == snap.Snake[1] || isDanger(snap, blocked, next) {
			continue
		}
		dist := nearestFood(next, snap.Food)
		if best == 0 || (dist >= 0 && (bestDist < 0 || dist < bestDist)) {
			best, bestDist = d, dist
		}
	}
	if best == 0 {
		return snap.Heading
	}
	return best
}

func isDanger(snap game.Snapshot, blocked map[game.Cell]bool, c game.Cell) bool {
	if c.X < 0 || c.X >= snap.Width || c.Y < 0 || c.Y >= snap.Height {
		return true
	}
	return blocked[c]
}

// nearestFood returns the Manhattan distance to the closest food, or -1.
func nearestFood(from game.Cell, food []game.Food) int {
	best := -1
	for _, f := range food {
		d := abs(f.X-from.X) + abs(f.Y-from.Y)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// preferredOrder tries the current heading first so ties keep going straight.
// The reversal is never a candidate.
func preferredOrder(heading game.Direction) []game.Direction {
	order := make([]game.Direction, 0, len(game.Directions))
	if heading.Valid() {
		order = append(order, heading)
	}
	for _, d := range game.Directions {
		if d != heading && (!heading.Valid() || d != heading.Opposite()) {
			order = append(order, d)
		}
	}
	return order
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
