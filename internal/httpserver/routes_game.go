// internal/httpserver/routes_game.go
//
// HTTP routes for playing a round.
//   - POST /game/new                 → create a session (normal or daily mode)
//   - GET  /game/{id}                → current snapshot
//   - POST /game/{id}/{command}      → start | pause | resume | shuffle
//   - POST /game/{id}/gesture        → pointer begin / move / end
//   - POST /game/{id}/word           → typed word submission
//   - GET  /stats/me                 → caller's round history aggregate
//
// Sessions live in memory; only their owner may read or drive them.
// Daily games share a grid sequence derived from date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/spellcast/internal/auth"
	"github.com/robalobadob/spellcast/internal/daily"
	"github.com/robalobadob/spellcast/internal/game"
	"github.com/robalobadob/spellcast/internal/grid"
	"github.com/robalobadob/spellcast/internal/selection"
	"github.com/robalobadob/spellcast/internal/session"
)

// commands maps command names to round transitions.
var commands = map[string]func(*game.Round) bool{
	"start":   (*game.Round).Start,
	"pause":   (*game.Round).Pause,
	"resume":  (*game.Round).Resume,
	"shuffle": (*game.Round).Shuffle,
}

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	for name, fn := range commands {
		r.Post("/game/{id}/"+name, s.handleCommand(fn))
	}
	r.Post("/game/{id}/gesture", s.handleGesture)
	r.Post("/game/{id}/word", s.handleWord)
}

// -----------------------------------------------------------------------------
// /game/new

type newGameReq struct {
	Mode string `json:"mode"` // "normal" | "daily"
	Seed *int64 `json:"seed"` // optional fixed seed (normal mode, testing)
}

type newGameRes struct {
	GameID   string        `json:"gameId"`
	Mode     string        `json:"mode"`
	Date     string        `json:"date,omitempty"` // daily mode only
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleNewGame creates a session owned by the caller. An empty body starts a
// normal game.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	opts := session.Options{
		ID:      auth.NewID(),
		Owner:   auth.PlayerID(r.Context()),
		Game:    s.Game,
		Dict:    s.Dict,
		History: s.History,
	}
	res := newGameRes{GameID: opts.ID}

	switch session.Mode(req.Mode) {
	case "", session.ModeNormal:
		opts.Mode = session.ModeNormal
		if req.Seed != nil {
			opts.Rand = rand.New(rand.NewSource(*req.Seed))
		}
	case session.ModeDaily:
		now := s.Now()
		opts.Mode = session.ModeDaily
		opts.Grids = grid.NewGenerator(s.Game.GridSize, nil,
			rand.New(rand.NewSource(daily.Seed(now, s.DailySalt))))
		res.Date = daily.DateKey(now)
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}
	res.Mode = string(opts.Mode)

	sess := session.New(opts)
	if err := s.Sessions.Save(r.Context(), sess); err != nil {
		sess.Close()
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "session_closed")
		return
	}
	res.Snapshot = snap

	hlog.FromRequest(r).Info().Str("gameId", opts.ID).Str("mode", res.Mode).Msg("game created")
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /game/{id}

// sessionFor loads the session named in the URL and checks ownership. It
// writes the error response itself and reports false on failure.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if sess.Owner() != auth.PlayerID(r.Context()) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type commandRes struct {
	Applied  bool          `json:"applied"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleCommand applies a phase transition. Invalid transitions answer 200
// with applied=false.
func (s *Server) handleCommand(fn func(*game.Round) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessionFor(w, r)
		if !ok {
			return
		}
		var res commandRes
		err := sess.Do(r.Context(), func(rd *game.Round) {
			res.Applied = fn(rd)
			res.Snapshot = rd.Snapshot()
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// -----------------------------------------------------------------------------
// /game/{id}/gesture

type gestureReq struct {
	Type string  `json:"type"` // begin | move | end
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type gestureRes struct {
	Applied  bool          `json:"applied"`
	Outcome  *game.Outcome `json:"outcome,omitempty"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// applyGesture feeds one pointer event to the round. ok is false for an
// unknown event type.
func applyGesture(rd *game.Round, typ string, p selection.Point) (applied bool, out *game.Outcome, ok bool) {
	switch typ {
	case "begin":
		return rd.BeginGesture(p), nil, true
	case "move":
		return rd.ExtendGesture(p), nil, true
	case "end":
		o := rd.EndGesture()
		return o.Verdict == game.Accepted, &o, true
	}
	return false, nil, false
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var (
		res   gestureRes
		known bool
	)
	err := sess.Do(r.Context(), func(rd *game.Round) {
		res.Applied, res.Outcome, known = applyGesture(rd, req.Type, selection.Point{X: req.X, Y: req.Y})
		res.Snapshot = rd.Snapshot()
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if !known {
		writeError(w, http.StatusBadRequest, "bad_gesture")
		return
	}
	if res.Outcome != nil && res.Outcome.Verdict == game.Accepted {
		hlog.FromRequest(r).Debug().Str("word", res.Outcome.Word).Int("points", res.Outcome.Points).Msg("word accepted")
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /game/{id}/word

type wordReq struct {
	Word string `json:"word"`
}

type wordRes struct {
	Outcome  game.Outcome  `json:"outcome"`
	Snapshot game.Snapshot `json:"snapshot"`
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var res wordRes
	err := sess.Do(r.Context(), func(rd *game.Round) {
		res.Outcome = rd.SubmitWord(req.Word)
		res.Snapshot = rd.Snapshot()
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /stats/me

type statsRes struct {
	PlayerID   string `json:"playerId"`
	Rounds     int    `json:"rounds"`
	Best       int    `json:"best"`
	TotalWords int    `json:"totalWords"`
	LastPlayed string `json:"lastPlayed,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := auth.PlayerID(r.Context())
	st, err := s.History.Stats(r.Context(), me)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	res := statsRes{PlayerID: me, Rounds: st.Rounds, Best: st.Best, TotalWords: st.TotalWords}
	if st.LastPlayed != nil {
		res.LastPlayed = st.LastPlayed.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, res)
}

// writeSessionError maps session errors onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, "session_closed")
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusServiceUnavailable, "timeout")
	}
}
