package game

import (
	"github.com/wfunc/snake/state"
)

// phase adapts a Status to state.State; enter runs the status' entry work.
type phase struct {
	status Status
	enter  func()
}

func (p *phase) OnEnter() {
	if p.enter != nil {
		p.enter()
	}
}

func (p *phase) OnExit() {}

func (p *phase) GetID() string {
	return p.status.String()
}

func (e *Engine) buildMachine() {
	e.phases = map[Status]*phase{
		NotStarted: {status: NotStarted, enter: e.clock.Reset},
		Running:    {status: Running, enter: e.clock.Start},
		GameOver:   {status: GameOver, enter: e.clock.Finish},
		Win:        {status: Win, enter: e.clock.Finish},
	}

	e.machine = state.NewMachine(e.phases[NotStarted])
	for _, t := range [][2]Status{
		{NotStarted, Running},
		{Running, GameOver},
		{Running, Win},
		{Running, NotStarted},
		{GameOver, NotStarted},
		{Win, NotStarted},
	} {
		e.machine.AddTransition(e.phases[t[0]], e.phases[t[1]], nil)
	}
}

func (e *Engine) transition(to Status) error {
	return e.machine.ChangeState(e.phases[to])
}
