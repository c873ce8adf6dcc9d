package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/aristath/bourseiq/internal/events"
)

// handleStream upgrades to a websocket and pushes every subsequent event
// emitted on the bus to the client as JSON, until the client disconnects.
// threadID is accepted for symmetry with the other thread routes and
// logged, but events aren't currently partitioned per thread -- the bus is
// process-wide, so a connected client sees every thread's activity.
func (h *threadHandlers) handleStream(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	sub, unsubscribe := h.events.Subscribe(32)
	defer unsubscribe()

	h.log.Info().Str("thread_id", threadID).Msg("stream client connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "client disconnected")
			return
		case event, ok := <-sub:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "event bus closed")
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("stream write failed, closing")
				return
			}
		}
	}
}
