package handler

import (
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/pkg/serverutils"
	internalWS "howdy-portal-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler upgrades authenticated requests into push sockets for
// async chat replies.
type WebSocketHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewWebSocketHandler(hub *internalWS.Hub, log logger.ILogger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: log}
}

// RegisterRoutes mounts GET /ws. Browsers cannot set headers on a socket,
// so the middleware also reads ?token=.
func (h *WebSocketHandler) RegisterRoutes(r fiber.Router, authMw fiber.Handler) {
	r.Get("/ws", authMw, h.Upgrade)
}

func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	sessionID := serverutils.SessionID(c)

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("WebSocket", "Session socket opened", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("WebSocket", "Session socket closed", map[string]interface{}{"session_id": sessionID})
	})(c)
}
