package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// clusterChannel carries pushes between instances when Redis is configured.
const clusterChannel = "portal:cluster_events"

const MessageTypeChatReply = "chat_reply"

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub tracks open sockets per session. A session may have several tabs
// open; each gets every push.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	// done is closed when Run returns so sockets closing during shutdown
	// never block on register or unregister.
	done chan struct{}

	// With Redis every push goes through the cluster channel, including
	// pushes for local sessions, so each instance delivers exactly once.
	rdb    *redis.Client
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[*Client]struct{})
			}
			h.clients[client.SessionID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// attach hands the client to Run. It reports false once the hub has
// stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach hands the client to Run, or removes it directly once Run is gone.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no open sockets", map[string]interface{}{"session_id": client.SessionID})
	}
}

// DeliverChatReply implements service.ReplyDelivery.
func (h *Hub) DeliverChatReply(sessionID string, push dto.ChatReplyPush) {
	h.push(sessionID, MessageTypeChatReply, push)
}

func (h *Hub) push(sessionID, msgType string, data interface{}) {
	msg, err := json.Marshal(envelope{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal push", map[string]interface{}{"type": msgType, "error": err.Error()})
		return
	}

	if h.rdb == nil {
		h.deliverLocal(sessionID, msg)
		return
	}

	payload, _ := json.Marshal(clusterMessage{SessionID: sessionID, Message: msg})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
		h.deliverLocal(sessionID, msg)
	}
}

func (h *Hub) deliverLocal(sessionID string, msg []byte) {
	var stalled []*Client

	h.mu.RLock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- msg:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var cm clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
			h.logger.Warn("Hub", "Bad cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.deliverLocal(cm.SessionID, cm.Message)
	}
}

// Connected reports how many sockets this instance holds for a session.
func (h *Hub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
