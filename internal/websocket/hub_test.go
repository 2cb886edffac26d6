package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"howdy-portal-be/internal/dto"
	"howdy-portal-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func attach(t *testing.T, hub *Hub, sessionID string, buffer int) *Client {
	t.Helper()
	c := &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, buffer)}
	hub.register <- c
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[sessionID][c]
		return ok
	}, time.Second, 5*time.Millisecond)
	return c
}

func TestHub_DeliverChatReply_OnlyToSession(t *testing.T) {
	hub := startHub(t)
	tabA := attach(t, hub, "s1", 4)
	tabB := attach(t, hub, "s1", 4)
	other := attach(t, hub, "s2", 4)

	hub.DeliverChatReply("s1", dto.ChatReplyPush{
		SessionId: "s1",
		Reply:     dto.ChatMessageResponse{Role: "assistant", Text: "Howdy!"},
	})

	for _, c := range []*Client{tabA, tabB} {
		select {
		case raw := <-c.Send:
			var got struct {
				Type string            `json:"type"`
				Data dto.ChatReplyPush `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, MessageTypeChatReply, got.Type)
			assert.Equal(t, "Howdy!", got.Data.Reply.Text)
		default:
			t.Fatal("tab did not receive the reply")
		}
	}
	assert.Empty(t, other.Send)
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	c := attach(t, hub, "s1", 1)
	assert.Equal(t, 1, hub.Connected("s1"))

	hub.unregister <- c
	require.Eventually(t, func() bool { return hub.Connected("s1") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_DropsStalledClient(t *testing.T) {
	hub := startHub(t)
	c := attach(t, hub, "s1", 0)

	hub.DeliverChatReply("s1", dto.ChatReplyPush{SessionId: "s1"})

	assert.Equal(t, 0, hub.Connected("s1"))
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_DetachAfterStop(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	c := attach(t, hub, "s1", 1)

	cancel()
	<-stopped

	detached := make(chan struct{})
	go func() {
		hub.detach(c)
		close(detached)
	}()
	select {
	case <-detached:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after the hub stopped")
	}

	assert.Equal(t, 0, hub.Connected("s1"))
	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_AttachAfterStop(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	c := &Client{Hub: hub, SessionID: "s1", Send: make(chan []byte, 1)}
	assert.False(t, hub.attach(c))
	assert.Equal(t, 0, hub.Connected("s1"))
}
