package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/service"
)

// StreamHandler upgrades dashboard clients to a websocket carrying sync
// status transitions, so the UI re-renders Fetching/Error/TimedOut states
// without polling.
type StreamHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewStreamHandler creates the websocket handler.
func NewStreamHandler(service service.DashboardService, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		logger:  logger.With().Str("component", "stream_handler").Logger(),
	}
}

// Register binds the websocket upgrade route.
func (h *StreamHandler) Register(router fiber.Router) {
	router.Use("/dashboard", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			if id := requestIdentity(c); id != "" {
				c.Locals("stream_user_id", id)
			}
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/dashboard", websocket.New(h.handleConnection))
}

func (h *StreamHandler) handleConnection(conn *websocket.Conn) {
	id, _ := conn.Locals("stream_user_id").(string)
	if id == "" {
		id = conn.Query("user_id")
	}

	events, cancel, err := h.service.Subscribe(id)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = conn.Close()
		return
	}
	defer cancel()

	h.logger.Info().Str("user_id", id).Msg("status stream connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				_ = conn.Close()
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug().Err(err).Msg("status stream write failed")
				_ = conn.Close()
				return
			}
		case <-done:
			h.logger.Info().Str("user_id", id).Msg("status stream disconnected")
			return
		}
	}
}
