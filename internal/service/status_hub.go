package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/dto"
)

// statusHub fans synchronizer state transitions out to websocket
// subscribers, keyed by identity. Slow subscribers are skipped rather than
// blocking the sync layer.
type statusHub struct {
	mu     sync.Mutex
	subs   map[string]map[int64]chan dto.StatusEvent
	nextID int64
	log    zerolog.Logger
}

func newStatusHub(logger zerolog.Logger) *statusHub {
	return &statusHub{
		subs: make(map[string]map[int64]chan dto.StatusEvent),
		log:  logger.With().Str("component", "status_hub").Logger(),
	}
}

func (h *statusHub) subscribe(identity string) (<-chan dto.StatusEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan dto.StatusEvent, 16)

	if h.subs[identity] == nil {
		h.subs[identity] = make(map[int64]chan dto.StatusEvent)
	}
	h.subs[identity][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if listeners, ok := h.subs[identity]; ok {
			if ch, ok := listeners[id]; ok {
				delete(listeners, id)
				close(ch)
			}
			if len(listeners) == 0 {
				delete(h.subs, identity)
			}
		}
	}

	return ch, cancel
}

func (h *statusHub) broadcast(identity string, event dto.StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[identity] {
		select {
		case ch <- event:
		default:
			h.log.Debug().Str("resource", event.Resource).Msg("subscriber lagging, event dropped")
		}
	}
}

func (h *statusHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for identity, listeners := range h.subs {
		for id, ch := range listeners {
			delete(listeners, id)
			close(ch)
		}
		delete(h.subs, identity)
	}
}
