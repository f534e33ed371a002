package game

const queueCapacity = 2

// DirectionQueue buffers validated-but-unapplied input. It holds at most
// two directions and never the same direction twice.
type DirectionQueue struct {
	moves [queueCapacity]Direction
	n     int
}

// Submit appends d unless the queue is full or already holds d.
func (q *DirectionQueue) Submit(d Direction) bool {
	if !d.Valid() || q.n >= queueCapacity {
		return false
	}
	for _, m := range q.moves[:q.n] {
		if m == d {
			return false
		}
	}
	q.moves[q.n] = d
	q.n++
	return true
}

// ConsumeValid returns the first queued direction that does not turn the
// head back onto the segment behind it, and removes it together with every
// rejected entry before it. With no valid entry it returns current and
// leaves the queue alone.
func (q *DirectionQueue) ConsumeValid(snake []Cell, current Direction) (Direction, int) {
	for i, m := range q.moves[:q.n] {
		if reversesOnto(snake, m) {
			continue
		}
		consumed := i + 1
		copy(q.moves[:], q.moves[consumed:q.n])
		q.n -= consumed
		return m, consumed
	}
	return current, 0
}

func (q *DirectionQueue) Len() int {
	return q.n
}

// Pending returns a copy of the queued directions, oldest first.
func (q *DirectionQueue) Pending() []Direction {
	out := make([]Direction, q.n)
	copy(out, q.moves[:q.n])
	return out
}

func (q *DirectionQueue) Reset() {
	q.n = 0
}

// reversesOnto reports whether moving the head by d lands on snake[1].
func reversesOnto(snake []Cell, d Direction) bool {
	if len(snake) < 2 {
		return false
	}
	return snake[0].Add(d) == snake[1]
}
