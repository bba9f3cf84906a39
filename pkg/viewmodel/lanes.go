package viewmodel

import "context"

type completion[T any] struct {
	lane  int
	gen   uint64
	value T
}

// lanes runs one fetch per trigger lane at a time. Dispatching on a lane
// cancels that lane's previous fetch and bumps its generation; completions
// from older generations are reported as stale. Only the control goroutine
// may call its methods.
type lanes[T any] struct {
	done     chan completion[T]
	gens     []uint64
	cancels  []context.CancelFunc
	inflight int
}

func newLanes[T any](n int) *lanes[T] {
	return &lanes[T]{
		done:    make(chan completion[T]),
		gens:    make([]uint64, n),
		cancels: make([]context.CancelFunc, n),
	}
}

// dispatch starts fn for lane. fn's context is cancelled when the lane is
// superseded or ctx ends.
func (l *lanes[T]) dispatch(ctx context.Context, lane int, fn func(context.Context) T) {
	if cancel := l.cancels[lane]; cancel != nil {
		cancel()
	}
	l.gens[lane]++
	gen := l.gens[lane]
	laneCtx, cancel := context.WithCancel(ctx)
	l.cancels[lane] = cancel
	l.inflight++

	go func() {
		defer cancel()
		v := fn(laneCtx)
		select {
		case l.done <- completion[T]{lane: lane, gen: gen, value: v}:
		case <-ctx.Done():
		}
	}()
}

// settle accounts for a received completion and reports whether it is the
// latest one for its lane.
func (l *lanes[T]) settle(c completion[T]) bool {
	l.inflight--
	return c.gen == l.gens[c.lane]
}

func (l *lanes[T]) idle() bool {
	return l.inflight == 0
}

func (l *lanes[T]) stop() {
	for _, cancel := range l.cancels {
		if cancel != nil {
			cancel()
		}
	}
}
