package dto

type SendChatRequest struct {
	Chat string `json:"chat" validate:"required,max=2000"`
}

type SendChatResponse struct {
	Pending    bool                  `json:"pending"`
	Discarded  bool                  `json:"discarded,omitempty"`
	Reply      *ChatMessageResponse  `json:"reply,omitempty"`
	Transcript []ChatMessageResponse `json:"transcript"`
}

// ChatReplyPush is what the WebSocket hub delivers for async sends.
type ChatReplyPush struct {
	SessionId  string                `json:"session_id"`
	Reply      ChatMessageResponse   `json:"reply"`
	Transcript []ChatMessageResponse `json:"transcript"`
}
