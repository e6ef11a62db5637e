package main

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// liveReadTimeout closes idle live sessions.
const liveReadTimeout = 2 * time.Minute

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     sameOrigin,
	}
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// handleLive keeps a websocket open for one fixture. Every text message is
// markup to check; the reply is the report as JSON. An empty message checks
// the fixture's own server render.
func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	f, ok := s.fixture(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("live upgrade failed", "fixture", f.Name, "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMarkup)
	s.logger.Debug("live session opened", "fixture", f.Name)
	for {
		conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Warn("live read error", "fixture", f.Name, "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text messages only"),
				time.Now().Add(time.Second))
			return
		}

		rep, err := s.tc.check(r.Context(), f, string(msg))
		if err != nil {
			rep = &report{Fixture: f.Name, Error: &errorInfo{Code: codeOf(err), Message: err.Error()}}
		}
		if err := conn.WriteJSON(rep); err != nil {
			s.logger.Warn("live write error", "fixture", f.Name, "error", err)
			return
		}
	}
}
