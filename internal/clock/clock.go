// Package clock defines the one-shot scheduling contract used by a round
// and a deterministic implementation for tests and replays.
package clock

import (
	"sort"
	"time"
)

// Handle is a pending one-shot task.
type Handle interface {
	// Cancel prevents the task from running. It is safe to call more than
	// once and after the task has run.
	Cancel()
}

// Scheduler runs fn once after d. Implementations must never run a task
// after its Handle was cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
}

// Manual is a Scheduler driven by explicit Advance calls. Tasks run
// synchronously on the caller's goroutine. It is not safe for concurrent use.
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due  time.Duration
	seq  int
	fn   func()
	dead bool
}

func (t *manualTask) Cancel() { t.dead = true }

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual { return &Manual{} }

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves time forward by d, running every task that falls due in
// order of due time then scheduling order. Tasks scheduled by a running task
// also fire if they fall within the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		t := m.next(end)
		if t == nil {
			break
		}
		m.now = t.due
		t.dead = true
		t.fn()
	}
	m.now = end
}

// Elapsed returns the manual time since creation.
func (m *Manual) Elapsed() time.Duration { return m.now }

// Pending returns the number of live tasks.
func (m *Manual) Pending() int {
	m.compact()
	return len(m.tasks)
}

func (m *Manual) next(end time.Duration) *manualTask {
	m.compact()
	sort.Slice(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	if len(m.tasks) == 0 || m.tasks[0].due > end {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.dead {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.tasks); i++ {
		m.tasks[i] = nil
	}
	m.tasks = live
}
