// Package portal holds the per-session view state of the student portal and
// the pure transitions over it. A transition never mutates its input; it
// returns the next State.
package portal

import (
	"errors"

	"howdy-portal-be/internal/constant"
	"howdy-portal-be/pkg/navigation"
	"howdy-portal-be/pkg/search"
)

type Theme string

const (
	ThemeMaroon Theme = "maroon"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"

	DefaultTheme = ThemeMaroon
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeMaroon, ThemeLight, ThemeDark:
		return true
	}
	return false
}

type Modal string

const (
	ModalNone    Modal = ""
	ModalPayment Modal = "payment"
)

type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

var (
	ErrChatInFlight    = errors.New("a chat reply is already pending")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownModal    = errors.New("unknown modal")
	ErrStaleSession    = errors.New("session was reset since the call was issued")
)

// State is everything the portal renders for one session.
//
// Epoch identifies the session lifetime: it changes on logout, and results
// of calls issued under an older epoch are discarded.
type State struct {
	SessionID      string          `json:"session_id"`
	Epoch          uint64          `json:"epoch"`
	LoggedIn       bool            `json:"logged_in"`
	Username       string          `json:"username,omitempty"`
	ActiveCategory string          `json:"active_category"`
	ExpandedMenu   map[string]bool `json:"expanded_menu"`
	SidebarOpen    bool            `json:"sidebar_open"`
	Theme          Theme           `json:"theme"`
	Query          string          `json:"query"`
	Results        []search.Result `json:"results"`
	Modal          Modal           `json:"modal"`
	ChatOpen       bool            `json:"chat_open"`
	ChatPending    bool            `json:"chat_pending"`
	Transcript     []ChatMessage   `json:"transcript"`
	Briefs         map[int]string  `json:"briefs"`
	LoadingBriefs  map[int]bool    `json:"loading_briefs"`
	PaymentOrderID string          `json:"payment_order_id,omitempty"`
}

// New returns the logged-out starting state of a session.
func New(sessionID string) State {
	return initial(sessionID, 0)
}

func initial(sessionID string, epoch uint64) State {
	return State{
		SessionID:      sessionID,
		Epoch:          epoch,
		ActiveCategory: navigation.HomeCategory,
		ExpandedMenu:   navigation.DefaultExpandedMenu(),
		SidebarOpen:    true,
		Theme:          DefaultTheme,
		Results:        []search.Result{},
		Transcript:     []ChatMessage{{Role: constant.ChatMessageRoleAssistant, Text: constant.ChatGreeting}},
		Briefs:         map[int]string{},
		LoadingBriefs:  map[int]bool{},
	}
}

// Clone deep-copies the maps and slices so the copy can be changed freely.
func (s State) Clone() State {
	out := s

	out.ExpandedMenu = make(map[string]bool, len(s.ExpandedMenu))
	for k, v := range s.ExpandedMenu {
		out.ExpandedMenu[k] = v
	}

	out.Results = append([]search.Result{}, s.Results...)
	out.Transcript = append([]ChatMessage{}, s.Transcript...)

	out.Briefs = make(map[int]string, len(s.Briefs))
	for k, v := range s.Briefs {
		out.Briefs[k] = v
	}
	out.LoadingBriefs = make(map[int]bool, len(s.LoadingBriefs))
	for k, v := range s.LoadingBriefs {
		out.LoadingBriefs[k] = v
	}
	return out
}
