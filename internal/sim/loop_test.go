package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/particles/internal/dynamo"
)

func TestLoop_StopsWhenFrameFuncReturnsFalse(t *testing.T) {
	w := demoWorld(t)
	loop := NewLoop(New(nil, nil, nil), w, dynamo.DefaultDt, 0)

	var seen []int
	err := loop.Start(context.Background(), func(w *dynamo.World, frame int, stats dynamo.StepStats) bool {
		seen = append(seen, frame)
		return frame < 5
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := loop.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	if len(seen) != 5 || seen[4] != 5 {
		t.Errorf("expected frames 1..5, got %v", seen)
	}
	if loop.Frames() != 5 {
		t.Errorf("expected 5 frames, got %d", loop.Frames())
	}
	if loop.Running() {
		t.Error("loop still running after Wait")
	}
}

func TestLoop_StopCancels(t *testing.T) {
	w := demoWorld(t)
	loop := NewLoop(New(nil, nil, nil), w, dynamo.DefaultDt, time.Millisecond)

	started := make(chan struct{})
	var once bool
	err := loop.Start(context.Background(), func(w *dynamo.World, frame int, stats dynamo.StepStats) bool {
		if !once {
			once = true
			close(started)
		}
		return true
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	<-started
	loop.Stop()

	if loop.Running() {
		t.Error("loop still running after Stop")
	}
	if loop.Err() != nil {
		t.Errorf("Stop should not surface an error, got %v", loop.Err())
	}
	frames := loop.Frames()
	if frames < 1 {
		t.Errorf("expected at least one frame, got %d", frames)
	}
	time.Sleep(5 * time.Millisecond)
	if loop.Frames() != frames {
		t.Error("loop kept stepping after Stop")
	}
}

func TestLoop_RejectsDoubleStart(t *testing.T) {
	loop := NewLoop(New(nil, nil, nil), demoWorld(t), dynamo.DefaultDt, time.Millisecond)
	if err := loop.Start(context.Background(), nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer loop.Stop()

	if err := loop.Start(context.Background(), nil); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("expected ErrLoopRunning, got %v", err)
	}
}

func TestLoop_RestartsAfterFinishingOnItsOwn(t *testing.T) {
	loop := NewLoop(New(nil, nil, nil), demoWorld(t), dynamo.DefaultDt, 0)
	stopAtFirst := func(w *dynamo.World, frame int, stats dynamo.StepStats) bool { return false }

	if err := loop.Start(context.Background(), stopAtFirst); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for loop.Running() {
		if time.Now().After(deadline) {
			t.Fatal("loop still reports running after its frame func returned false")
		}
		time.Sleep(time.Millisecond)
	}
	if loop.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", loop.Frames())
	}

	if err := loop.Start(context.Background(), stopAtFirst); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if err := loop.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if loop.Running() {
		t.Error("loop still running after Wait")
	}
	loop.Stop()
}

func TestLoop_RejectsBadTimestep(t *testing.T) {
	loop := NewLoop(New(nil, nil, nil), demoWorld(t), 0, 0)
	if err := loop.Start(context.Background(), nil); !errors.Is(err, dynamo.ErrInvalidTimestep) {
		t.Errorf("expected ErrInvalidTimestep, got %v", err)
	}
}

func TestLoop_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	loop := NewLoop(New(nil, nil, nil), demoWorld(t), dynamo.DefaultDt, time.Millisecond)
	if err := loop.Start(ctx, nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	err := loop.Wait()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}
