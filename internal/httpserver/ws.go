package httpserver

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/spellcast/internal/game"
	"github.com/robalobadob/spellcast/internal/selection"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsOutBuffer  = 16
)

// wsIn is a client event: a pointer event or a command.
type wsIn struct {
	Type string  `json:"type"` // begin | move | end | start | pause | resume | shuffle
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// wsOut is a server push.
type wsOut struct {
	Type     string         `json:"type"` // snapshot | outcome | error
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Outcome  *game.Outcome  `json:"outcome,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// checkOrigin accepts same-host and configured-client origins, and clients
// that send no Origin at all.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// handleWS streams snapshots to the owner and accepts pointer events and
// commands. One goroutine reads, one writes; the round is only touched
// through the session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	logger := hlog.FromRequest(r).With().Str("gameId", sess.ID()).Logger()
	logger.Debug().Msg("websocket connected")

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	out := make(chan wsOut, wsOutBuffer)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.wsWriter(conn, updates, out, stop)
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	// Trigger an initial snapshot for this subscriber.
	if err := sess.Do(r.Context(), func(*game.Round) {}); err != nil {
		return
	}

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		var (
			outcome *game.Outcome
			known   bool
		)
		err := sess.Do(r.Context(), func(rd *game.Round) {
			if fn, ok := commands[in.Type]; ok {
				fn(rd)
				known = true
				return
			}
			_, outcome, known = applyGesture(rd, in.Type, selection.Point{X: in.X, Y: in.Y})
		})
		if err != nil {
			return
		}

		var msg *wsOut
		switch {
		case !known:
			msg = &wsOut{Type: "error", Error: "bad_message"}
		case outcome != nil:
			msg = &wsOut{Type: "outcome", Outcome: outcome}
		}
		if msg != nil {
			select {
			case out <- *msg:
			default:
				logger.Warn().Msg("websocket outbox full, dropping message")
			}
		}
	}
}

// wsWriter owns all writes to conn.
func (s *Server) wsWriter(conn *websocket.Conn, updates <-chan game.Snapshot, out <-chan wsOut, stop <-chan struct{}) {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v) == nil
	}

	for {
		select {
		case <-stop:
			return
		case snap, ok := <-updates:
			if !ok {
				// session closed
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				_ = conn.Close()
				return
			}
			if !write(wsOut{Type: "snapshot", Snapshot: &snap}) {
				_ = conn.Close()
				return
			}
		case msg := <-out:
			if !write(msg) {
				_ = conn.Close()
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
