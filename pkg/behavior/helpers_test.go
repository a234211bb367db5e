package behavior

import "context"

// scripted is a leaf returning a fixed sequence of statuses; the last one
// repeats once the script is exhausted.
type scripted struct {
	name   string
	script []Status
	ticks  int
	resets int
	order  *[]string
}

func leaf(name string, order *[]string, script ...Status) *scripted {
	return &scripted{name: name, script: script, order: order}
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Tick(TickContext) Status {
	s.ticks++
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	i := s.ticks - 1
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i]
}

func (s *scripted) Reset() { s.resets++ }

func tc() TickContext {
	return TickContext{Ctx: context.Background(), BB: NewBlackboard()}
}

const (
	S = StatusSuccess
	F = StatusFailure
	R = StatusRunning
)
