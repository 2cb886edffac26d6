package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the socket with the hub and blocks until it closes. A
// socket that arrives after the hub stopped is closed right away.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256)}
	if !hub.attach(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
