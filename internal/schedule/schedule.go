// Package schedule provides the timer surface used by page controllers for
// auto-close and countdown behavior. Controllers only see the Scheduler
// interface, so tests drive time with the Manual implementation instead of
// waiting on the wall clock.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a scheduled callback that can be stopped before it fires.
type Task interface {
	// Stop cancels the task. It reports false when the task already fired
	// or was stopped before.
	Stop() bool
}

type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

// Wall schedules on the real clock.
type Wall struct{}

func (Wall) Now() time.Time { return time.Now() }

func (Wall) AfterFunc(d time.Duration, fn func()) Task {
	return &wallTask{timer: time.AfterFunc(d, fn)}
}

type wallTask struct {
	timer *time.Timer
}

func (t *wallTask) Stop() bool { return t.timer.Stop() }

// Manual is a deterministic scheduler for tests. Advance moves the clock and
// fires due tasks in due order; tasks scheduled by a firing callback are
// honored within the same Advance when they fall inside the window.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*manualTask
	seq   int
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{owner: m, due: m.now.Add(d), fn: fn, seq: m.seq}
	m.tasks = append(m.tasks, task)
	return task
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		task := m.popDue(target)
		if task == nil {
			break
		}
		m.now = task.due
		m.mu.Unlock()
		task.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Pending reports how many tasks are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) popDue(target time.Time) *manualTask {
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})
	if len(m.tasks) == 0 || m.tasks[0].due.After(target) {
		return nil
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	return task
}

func (m *Manual) remove(task *manualTask) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, candidate := range m.tasks {
		if candidate == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

type manualTask struct {
	owner *Manual
	due   time.Time
	fn    func()
	seq   int
}

func (t *manualTask) Stop() bool { return t.owner.remove(t) }

// Countdown ticks once per second, reporting the remaining whole seconds,
// and invokes onDone when it reaches zero. onTick fires immediately with the
// full duration so the screen shows the starting value.
type Countdown struct {
	mu      sync.Mutex
	sched   Scheduler
	task    Task
	stopped bool
}

func StartCountdown(sched Scheduler, seconds int, onTick func(remaining int), onDone func()) *Countdown {
	c := &Countdown{sched: sched}
	if onTick != nil {
		onTick(seconds)
	}
	c.step(seconds, onTick, onDone)
	return c
}

func (c *Countdown) step(remaining int, onTick func(int), onDone func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.task = c.sched.AfterFunc(time.Second, func() {
		next := remaining - 1
		if next <= 0 {
			if onTick != nil {
				onTick(0)
			}
			if onDone != nil {
				onDone()
			}
			return
		}
		if onTick != nil {
			onTick(next)
		}
		c.step(next, onTick, onDone)
	})
}

func (c *Countdown) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.stopped = true
	if c.task != nil {
		return c.task.Stop()
	}
	return false
}
