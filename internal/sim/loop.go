package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/san-kum/particles/internal/dynamo"
)

var ErrLoopRunning = errors.New("sim: loop already running")

// FrameFunc receives the world after each step. It runs on the loop's
// goroutine, so it may read the world freely; returning false stops the loop.
type FrameFunc func(w *dynamo.World, frame int, stats dynamo.StepStats) bool

// Loop drives a simulator one frame at a time until stopped. It owns the
// world while running; nothing else may touch it until Stop or Wait return.
type Loop struct {
	sim      *Simulator
	world    *dynamo.World
	dt       float64
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	frames int
	err    error
}

// NewLoop returns a stopped loop. interval paces frames; zero runs them
// back to back.
func NewLoop(s *Simulator, w *dynamo.World, dt float64, interval time.Duration) *Loop {
	return &Loop{sim: s, world: w, dt: dt, interval: interval}
}

func (l *Loop) Start(ctx context.Context, onFrame FrameFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return ErrLoopRunning
	}
	if err := (dynamo.Config{Dt: l.dt, Gravity: l.sim.Gravity()}).Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.err = nil
	go l.run(ctx, onFrame, l.done)
	return nil
}

func (l *Loop) run(ctx context.Context, onFrame FrameFunc, done chan struct{}) {
	defer l.reset(done)
	defer close(done)

	var tick <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for frame := 1; ; frame++ {
		select {
		case <-ctx.Done():
			l.finish(frame-1, ctx.Err())
			return
		default:
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				l.finish(frame-1, ctx.Err())
				return
			case <-tick:
			}
		}

		stats := l.sim.Step(l.world, l.dt)
		if onFrame != nil && !onFrame(l.world, frame, stats) {
			l.finish(frame, nil)
			return
		}
	}
}

func (l *Loop) finish(frames int, err error) {
	l.mu.Lock()
	l.frames = frames
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	l.err = err
	l.mu.Unlock()
}

// Stop cancels the loop and waits for the in-flight frame to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.reset(done)
}

// Wait blocks until the loop ends on its own or via its context.
func (l *Loop) Wait() error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return l.Err()
	}
	<-done
	l.reset(done)
	return l.Err()
}

// reset clears the run that owns done. A newer run started in between is
// left alone.
func (l *Loop) reset(done chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != done {
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = nil
	l.done = nil
}

// Running reports whether the loop goroutine is still active. A loop that
// ended on its own reports false and can be started again.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done != nil
}

// Frames reports how many frames the last run completed.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
