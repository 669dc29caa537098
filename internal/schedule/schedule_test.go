package schedule

import (
	"testing"
	"time"
)

func TestManualAdvanceFiresDueTasks(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sched := NewManual(start)

	var fired []string
	sched.AfterFunc(3*time.Second, func() { fired = append(fired, "late") })
	sched.AfterFunc(1*time.Second, func() { fired = append(fired, "early") })

	sched.Advance(2 * time.Second)
	if len(fired) != 1 || fired[0] != "early" {
		t.Fatalf("only the due task must fire, got %v", fired)
	}

	sched.Advance(2 * time.Second)
	if len(fired) != 2 || fired[1] != "late" {
		t.Fatalf("remaining task must fire in order, got %v", fired)
	}
	if got := sched.Now(); !got.Equal(start.Add(4 * time.Second)) {
		t.Fatalf("clock must land on the target, got %v", got)
	}
}

func TestManualStop(t *testing.T) {
	sched := NewManual(time.Unix(0, 0))
	fired := false
	task := sched.AfterFunc(time.Second, func() { fired = true })

	if !task.Stop() {
		t.Fatal("first stop must succeed")
	}
	if task.Stop() {
		t.Fatal("second stop must report false")
	}
	sched.Advance(5 * time.Second)
	if fired {
		t.Fatal("stopped task must not fire")
	}
}

func TestManualNestedScheduling(t *testing.T) {
	sched := NewManual(time.Unix(0, 0))
	var fired []int
	sched.AfterFunc(time.Second, func() {
		fired = append(fired, 1)
		sched.AfterFunc(time.Second, func() { fired = append(fired, 2) })
	})

	sched.Advance(3 * time.Second)
	if len(fired) != 2 {
		t.Fatalf("nested task inside the window must fire, got %v", fired)
	}
}

func TestCountdown(t *testing.T) {
	sched := NewManual(time.Unix(0, 0))
	var ticks []int
	done := false

	StartCountdown(sched, 3, func(remaining int) { ticks = append(ticks, remaining) }, func() { done = true })

	if len(ticks) != 1 || ticks[0] != 3 {
		t.Fatalf("countdown must tick immediately with the full value, got %v", ticks)
	}

	sched.Advance(3 * time.Second)
	want := []int{3, 2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("tick sequence mismatch: %v", ticks)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("tick sequence mismatch: %v", ticks)
		}
	}
	if !done {
		t.Fatal("onDone must fire at zero")
	}
}

func TestCountdownStop(t *testing.T) {
	sched := NewManual(time.Unix(0, 0))
	done := false
	countdown := StartCountdown(sched, 5, nil, func() { done = true })

	sched.Advance(2 * time.Second)
	countdown.Stop()
	sched.Advance(10 * time.Second)
	if done {
		t.Fatal("stopped countdown must not complete")
	}
	if sched.Pending() != 0 {
		t.Fatalf("stopped countdown must leave no pending tasks, got %d", sched.Pending())
	}
}
