package session

import (
	"time"

	"github.com/robalobadob/spellcast/internal/clock"
)

// loopScheduler runs timer callbacks on the session loop instead of the
// timer goroutine. A task cancelled before the loop reaches it is dropped,
// even if its timer had already fired.
type loopScheduler struct {
	post func(func()) bool
}

type loopTask struct {
	timer     *time.Timer
	cancelled bool // loop goroutine only
}

func (t *loopTask) Cancel() {
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (l *loopScheduler) AfterFunc(d time.Duration, fn func()) clock.Handle {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			if !t.cancelled {
				fn()
			}
		})
	})
	return t
}
