package events

import "time"

// Event types emitted by the portal.
const (
	TypeUserLogin      = "USER_LOGIN"
	TypeUserLogout     = "USER_LOGOUT"
	TypeSearchSelected = "SEARCH_RESULT_SELECTED"
	TypeChatCompleted  = "CHAT_COMPLETED"
	TypeChatDiscarded  = "CHAT_REPLY_DISCARDED"
	TypePaymentCreated = "PAYMENT_CREATED"
	TypePaymentSettled = "PAYMENT_SETTLED"
	TypeThemeChanged   = "THEME_CHANGED"
	TypeBriefGenerated = "NEWS_BRIEF_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
