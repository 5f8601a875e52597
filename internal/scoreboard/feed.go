package scoreboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Event is pushed to scoreboard subscribers after each successful award.
type Event struct {
	UserID        string `json:"user_id"`
	ChallengeID   string `json:"challenge_id"`
	ChallengeName string `json:"challenge_name"`
	Points        int    `json:"points"`
	TotalScore    int    `json:"total_score"`
}

const feedWriteTimeout = 5 * time.Second

// Feed fans award events out to connected WebSocket clients so scoreboard
// views can update live instead of polling.
type Feed struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{conns: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request to a WebSocket and streams award events
// until the client disconnects. Client messages are discarded.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept scoreboard WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}

	f.register(ws)
	defer func() {
		f.unregister(ws)
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("Failed to close scoreboard websocket", "error", closeErr)
		}
	}()

	slog.Info("Scoreboard subscriber connected", "ip", r.RemoteAddr)

	// Drain the connection; the read returning an error is the disconnect
	// signal.
	for {
		if _, _, err := ws.Read(r.Context()); err != nil {
			return
		}
	}
}

// Broadcast sends the event to every connected subscriber. Connections that
// fail to accept the write are dropped.
func (f *Feed) Broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal scoreboard event", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for conn := range f.conns {
		ctx, cancel := context.WithTimeout(context.Background(), feedWriteTimeout)
		err := conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Debug("Dropping scoreboard subscriber after write error", "error", err)
			delete(f.conns, conn)
			_ = conn.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

// Subscribers returns the number of connected clients.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func (f *Feed) register(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn] = struct{}{}
}

func (f *Feed) unregister(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, conn)
}
