package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// LiveDependencies defines the interface for the live board feed.
type LiveDependencies interface {
	Board(ctx context.Context) types.Board
	Subscribe() (<-chan types.Board, func())
}

// LiveHandler streams board updates over a websocket.
type LiveHandler struct {
	deps     LiveDependencies
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewLiveHandler creates a live handler. With no origins every origin is
// accepted.
func NewLiveHandler(deps LiveDependencies, origins ...string) *LiveHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return &LiveHandler{
		deps:   deps,
		logger: logger.Get().Named("live"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[strings.ToLower(r.Header.Get("Origin"))]
				return ok
			},
		},
	}
}

// HandleLive handles GET /live. The current board is sent first, then every
// newer board as it is published.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "upgrade failed", logger.Error(WrapKind("api.live", ErrUpgrade, err)))
		return
	}
	defer conn.Close()

	feed, unsubscribe := h.deps.Subscribe()
	defer unsubscribe()

	if err := h.send(conn, h.deps.Board(ctx)); err != nil {
		return
	}

	// Reads only serve to notice the client going away and to receive pongs.
	done := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case b, ok := <-feed:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(liveWriteWait))
				return
			}
			if err := h.send(conn, b); err != nil {
				h.logger.Debug(ctx, "live client dropped", logger.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) send(conn *websocket.Conn, b types.Board) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteJSON(b)
}
