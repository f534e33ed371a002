package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/snake/state"
)

// ErrInvalidOptions is returned by NewEngine for options that were not
// normalised before reaching the engine.
var ErrInvalidOptions = errors.New("invalid engine options")

// Options is the already-validated configuration of one engine.
type Options struct {
	Width      int
	Height     int
	Snake      []Cell    // initial layout, head first
	Heading    Direction // initial heading
	Food       []Cell    // food placed before random spawning on every (re)start
	FoodAmount int
	Immortal   bool
	// AutoStart puts new and restarted sessions straight into Running.
	// Hosts driving the snake with a strategy set it.
	AutoStart bool
	Seed      uint64
	Now       func() time.Time
}

func (o Options) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if err := ValidateLayout(o.Width, o.Height, o.Snake); err != nil {
		return err
	}
	if !o.Heading.Valid() {
		return fmt.Errorf("%w: heading %d", ErrInvalidOptions, o.Heading)
	}
	if o.FoodAmount < 1 || o.FoodAmount > o.Width*o.Height {
		return fmt.Errorf("%w: food amount %d", ErrInvalidOptions, o.FoodAmount)
	}
	return nil
}

// ValidateLayout checks that snake is a legal starting body on a
// width x height board.
func ValidateLayout(width, height int, snake []Cell) error {
	if len(snake) < 2 || len(snake) > width*height {
		return fmt.Errorf("%w: snake length %d", ErrInvalidOptions, len(snake))
	}
	seen := make(map[Cell]struct{}, len(snake))
	for i, c := range snake {
		if c.X < 0 || c.X >= width || c.Y < 0 || c.Y >= height {
			return fmt.Errorf("%w: snake cell %v out of bounds", ErrInvalidOptions, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: snake cell %v repeated", ErrInvalidOptions, c)
		}
		seen[c] = struct{}{}
		if i > 0 && manhattan(snake[i-1], c) != 1 {
			return fmt.Errorf("%w: snake cells %v and %v not adjacent", ErrInvalidOptions, snake[i-1], c)
		}
	}
	return nil
}

// Outcome summarises one Tick.
type Outcome struct {
	Ticked    bool      // false when the engine was not running
	Turned    bool      // heading changed this tick
	Ate       bool      // a food item was eaten
	Eaten     Food      // valid when Ate
	Collision Collision // reported even in immortal mode
	Status    Status    // status after the tick
}

// Snapshot is a deep copy of the engine state for renderers and strategies.
type Snapshot struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Tick    uint64        `json:"tick"`
	Status  Status        `json:"status"`
	Score   int           `json:"score"`
	Heading Direction     `json:"heading"`
	Snake   []Cell        `json:"snake"`
	Food    []Food        `json:"food"`
	Pending []Direction   `json:"pending"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Engine owns the whole game state. Submit, Tick and Restart are the only
// mutation entry points.
type Engine struct {
	opts     Options
	board    *Board
	spawner  *Spawner
	detector *Detector
	clock    *Clock
	queue    DirectionQueue
	machine  *state.Machine
	phases   map[Status]*phase
	listener Listener

	snake   []Cell
	food    []Food
	heading Direction
	score   int
	tick    uint64
}

// NewEngine builds an engine in its initial layout with food seeded. A nil
// listener discards events.
func NewEngine(opts Options, listener Listener) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if listener == nil {
		listener = ListenerFunc(func(Event) {})
	}

	board := NewBoard(opts.Width, opts.Height, opts.Seed)
	e := &Engine{
		opts:     opts,
		board:    board,
		spawner:  NewSpawner(board),
		detector: NewDetector(board),
		clock:    NewClock(opts.Now),
		listener: listener,
	}
	e.buildMachine()
	e.reset()
	if opts.AutoStart {
		e.start()
	}
	return e, nil
}

// Submit offers a direction from any input source. It reports whether the
// direction was accepted; rejected input has no effect.
func (e *Engine) Submit(d Direction) bool {
	if !d.Valid() {
		return false
	}

	switch e.Status() {
	case NotStarted:
		// Only a real turn starts the game.
		if d == e.heading || reversesOnto(e.snake, d) {
			return false
		}
		if !e.queue.Submit(d) {
			return false
		}
		e.start()
		return true
	case Running:
		return e.queue.Submit(d)
	}
	return false
}

// Tick advances the snake one cell. It is a no-op unless Running.
func (e *Engine) Tick() Outcome {
	out := Outcome{Status: e.Status()}
	if out.Status != Running {
		return out
	}
	e.tick++
	out.Ticked = true

	if dir, consumed := e.queue.ConsumeValid(e.snake, e.heading); consumed > 0 && dir != e.heading {
		e.heading = dir
		out.Turned = true
		e.emit(Event{Kind: EventTurn})
	}

	head := e.snake[0].Add(e.heading)
	candidate := make([]Cell, 0, len(e.snake)+1)
	candidate = append(candidate, head)
	candidate = append(candidate, e.snake...)

	idx := foodIndex(e.food, head)
	if idx < 0 {
		candidate = candidate[:len(candidate)-1]

		out.Collision = e.detector.Detect(candidate)
		if out.Collision != NoCollision {
			e.emit(Event{Kind: EventCollision, Collision: out.Collision})
			if !e.opts.Immortal {
				out.Status = e.finish(GameOver, EventGameOver)
				return out
			}
		}
		// Immortal mode commits the overlapping body as well.
		e.snake = candidate
		return out
	}

	eaten := e.food[idx]
	e.food = append(e.food[:idx:idx], e.food[idx+1:]...)
	e.score++
	e.snake = candidate
	out.Ate = true
	out.Eaten = eaten
	e.emit(Event{Kind: EventFoodEaten, Food: &eaten})

	if len(e.snake) == e.board.Area() {
		out.Status = e.finish(Win, EventWin)
		return out
	}
	e.food = e.spawner.Replenish(e.snake, e.food, e.opts.FoodAmount)
	return out
}

// Restart returns to the initial layout. With AutoStart the new session is
// already running.
func (e *Engine) Restart() {
	if e.Status() != NotStarted {
		_ = e.transition(NotStarted)
	}
	e.reset()
	if e.opts.AutoStart {
		e.start()
	}
}

func (e *Engine) Status() Status {
	return e.machine.GetCurrentState().(*phase).status
}

func (e *Engine) Score() int {
	return e.score
}

func (e *Engine) Heading() Direction {
	return e.heading
}

func (e *Engine) Elapsed() time.Duration {
	return e.clock.Elapsed()
}

// Clock exposes the session timestamps.
func (e *Engine) Clock() *Clock {
	return e.clock
}

func (e *Engine) Snapshot() Snapshot {
	snake := make([]Cell, len(e.snake))
	copy(snake, e.snake)
	food := make([]Food, len(e.food))
	copy(food, e.food)

	return Snapshot{
		Width:   e.board.Width,
		Height:  e.board.Height,
		Tick:    e.tick,
		Status:  e.Status(),
		Score:   e.score,
		Heading: e.heading,
		Snake:   snake,
		Food:    food,
		Pending: e.queue.Pending(),
		Elapsed: e.clock.Elapsed(),
	}
}

func (e *Engine) reset() {
	e.snake = make([]Cell, len(e.opts.Snake))
	copy(e.snake, e.opts.Snake)
	e.heading = e.opts.Heading
	e.score = 0
	e.tick = 0
	e.queue.Reset()
	e.clock.Reset()
	e.board.Reseed(e.opts.Seed)
	e.spawner.Reset()

	e.food = nil
	for _, c := range e.opts.Food {
		if len(e.food) >= e.opts.FoodAmount {
			break
		}
		e.food = e.spawner.Place(e.snake, e.food, c)
	}
	e.food = e.spawner.Replenish(e.snake, e.food, e.opts.FoodAmount)
}

func (e *Engine) start() {
	if err := e.transition(Running); err != nil {
		return
	}
	e.emit(Event{Kind: EventStarted})
}

func (e *Engine) finish(to Status, kind EventKind) Status {
	if err := e.transition(to); err != nil {
		return e.Status()
	}
	e.emit(Event{Kind: kind})
	return to
}

func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	ev.Heading = e.heading
	ev.Score = e.score
	e.listener.OnEvent(ev)
}

func manhattan(a, b Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
