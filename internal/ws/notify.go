package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Event is the envelope every dashboard message uses.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Notify broadcasts an event to all dashboards. It satisfies the use case
// notifier and is safe to call on a nil hub.
func (h *Hub) Notify(event string, payload any) {
	if h == nil || event == "" {
		return
	}

	b, err := json.Marshal(Event{
		Type:      event,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Warn("ws event encode failed", zap.String("type", event), zap.Error(err))
		return
	}
	h.Broadcast(b)
}
