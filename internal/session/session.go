// internal/session/session.go
//
// Session hosts one game.Round on its own goroutine.
// Responsibilities:
//   - Serialising every command and timer callback onto a single event loop,
//     so the round itself needs no locks.
//   - Publishing a snapshot to subscribers after every processed event.
//   - Recording finished rounds to history in the background; Close waits
//     for those writes.
//
// Notes:
//   - Do must not be called from inside a Do callback (it would deadlock).
//   - Subscribers that fall behind miss snapshots rather than stall the loop.

package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast/internal/config"
	"github.com/robalobadob/spellcast/internal/game"
	"github.com/robalobadob/spellcast/internal/history"
)

var (
	ErrNotFound = errors.New("session: not found")
	ErrClosed   = errors.New("session: closed")
)

// Mode selects how grids are generated.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// subscriberBuffer is how many snapshots a subscriber may lag behind.
const subscriberBuffer = 8

// Recorder persists finished rounds.
type Recorder interface {
	Record(ctx context.Context, r history.Result) error
}

// Options configure a new Session. Dict is required.
type Options struct {
	ID      string
	Owner   string
	Mode    Mode
	Game    config.Game
	Dict    game.Dictionary
	Rand    *rand.Rand
	Grids   game.GridSource
	History Recorder
}

type Session struct {
	id      string
	owner   string
	mode    Mode
	history Recorder

	round   *game.Round // loop goroutine only
	events  chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	records sync.WaitGroup

	mu         sync.RWMutex
	subs       map[chan game.Snapshot]struct{}
	closed     bool
	lastActive time.Time
}

// New creates a session and starts its loop.
func New(opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = ModeNormal
	}
	s := &Session{
		id:         opts.ID,
		owner:      opts.Owner,
		mode:       opts.Mode,
		history:    opts.History,
		events:     make(chan func()),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		subs:       make(map[chan game.Snapshot]struct{}),
		lastActive: time.Now(),
	}
	s.round = game.New(opts.Game, game.Deps{
		Dict:      opts.Dict,
		Scheduler: &loopScheduler{post: s.post},
		Rand:      opts.Rand,
		Grids:     opts.Grids,
		OnEnd:     s.onEnd,
	})
	go s.run()
	log.Debug().Str("session", s.id).Str("owner", s.owner).Str("mode", string(s.mode)).Msg("session created")
	return s
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Owner() string { return s.owner }
func (s *Session) Mode() Mode    { return s.mode }

// LastActive reports when a command last ran or a subscriber came or went.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Do runs fn on the loop with exclusive access to the round and waits for it
// to return. Subscribers receive a snapshot afterwards.
func (s *Session) Do(ctx context.Context, fn func(r *game.Round)) error {
	ran := make(chan struct{})
	task := func() {
		defer close(ran)
		s.touch()
		fn(s.round)
	}
	select {
	case s.events <- task:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-ran
	return nil
}

// Snapshot is a convenience wrapper around Do.
func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.Do(ctx, func(r *game.Round) { snap = r.Snapshot() })
	return snap, err
}

// Subscribe returns a channel of snapshots and a function to stop receiving
// them. The channel is closed on unsubscribe or when the session closes.
func (s *Session) Subscribe() (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, subscriberBuffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.lastActive = time.Now()
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
			s.lastActive = time.Now()
		}
	}
}

// Subscribers reports how many snapshot channels are open.
func (s *Session) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Close stops the loop, cancels pending timers and closes subscriber
// channels. It waits for the loop to exit and for pending history writes,
// and is safe to call repeatedly.
func (s *Session) Close() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	s.records.Wait()
}

// Done is closed once the session starts shutting down.
func (s *Session) Done() <-chan struct{} { return s.done }

// ------------------------------- internals ---------------------------------

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.events:
			fn()
			s.publish(s.round.Snapshot())
		case <-s.done:
			s.round.Stop()
			s.mu.Lock()
			s.closed = true
			for ch := range s.subs {
				close(ch)
			}
			s.subs = nil
			s.mu.Unlock()
			log.Debug().Str("session", s.id).Msg("session closed")
			return
		}
	}
}

// post hands fn to the loop; it reports false once the session is closed.
func (s *Session) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) publish(snap game.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) onEnd(sum game.Summary) {
	log.Info().
		Str("session", s.id).
		Str("owner", s.owner).
		Int("round", sum.Round).
		Int("score", sum.Score).
		Int("words", sum.Words).
		Msg("round ended")
	if s.history == nil {
		return
	}
	res := history.Result{
		PlayerID:   s.owner,
		GameID:     s.id,
		Mode:       string(s.mode),
		Score:      sum.Score,
		Words:      sum.Words,
		DurationS:  sum.Duration,
		FinishedAt: time.Now(),
	}
	s.records.Add(1)
	go func() {
		defer s.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.history.Record(ctx, res); err != nil {
			log.Warn().Err(err).Str("session", s.id).Msg("record round")
		}
	}()
}
